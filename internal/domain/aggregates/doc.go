// Package aggregates defines the write boundaries of the wedding domain.
//
// Each contract names a set of tables whose rows must change together: a household
// with its guests, invitations and gift; an event with its invitation column; an RSVP
// submission with its statuses and answers; a wedding with its members and settings.
// Nothing here knows about gorm or HTTP.
package aggregates
