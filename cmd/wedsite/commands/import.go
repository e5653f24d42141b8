package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/wedsite-backend/internal/app"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
)

// householdsFile is the YAML layout accepted by `wedsite import`.
// Guests reference events by name.
type householdsFile struct {
	Households []householdEntry `yaml:"households"`
}

type householdEntry struct {
	Name         string       `yaml:"name"`
	AddressLine1 string       `yaml:"address_line1"`
	AddressLine2 string       `yaml:"address_line2"`
	City         string       `yaml:"city"`
	State        string       `yaml:"state"`
	PostalCode   string       `yaml:"postal_code"`
	Country      string       `yaml:"country"`
	Notes        string       `yaml:"notes"`
	Guests       []guestEntry `yaml:"guests"`
	Gift         *giftEntry   `yaml:"gift"`
}

type guestEntry struct {
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Email     string   `yaml:"email"`
	Phone     string   `yaml:"phone"`
	IsChild   bool     `yaml:"is_child"`
	Events    []string `yaml:"events"`
}

type giftEntry struct {
	Description  string     `yaml:"description"`
	ReceivedAt   *time.Time `yaml:"received_at"`
	ThankYouSent bool       `yaml:"thank_you_sent"`
}

func newImportCmd() *cobra.Command {
	var (
		weddingFlag string
		fileFlag    string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-create households from a YAML guest list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weddingID, err := uuid.Parse(weddingFlag)
			if err != nil {
				return fmt.Errorf("--wedding must be a wedding id: %w", err)
			}
			f, err := os.Open(fileFlag)
			if err != nil {
				return err
			}
			defer f.Close()
			entries, err := parseHouseholdsFile(f)
			if err != nil {
				return err
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			a, err := app.New(cmd.Context(), log, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return runImport(cmd.Context(), cmd.OutOrStdout(), a, weddingID, entries)
		},
	}
	cmd.Flags().StringVar(&weddingFlag, "wedding", "", "wedding id to import into")
	cmd.Flags().StringVar(&fileFlag, "file", "", "path to the households YAML file")
	_ = cmd.MarkFlagRequired("wedding")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, out io.Writer, a *app.App, weddingID uuid.UUID, entries []householdEntry) error {
	w, err := a.Repos.Wedding.GetByID(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("wedding %s not found", weddingID)
	}
	events, err := a.Services.Event.List(ctx, weddingID)
	if err != nil {
		return err
	}
	inputs, err := toHouseholdInputs(weddingID, entries, events)
	if err != nil {
		return err
	}
	res, err := a.Services.Household.Import(ctx, weddingID, inputs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d household(s) into %s\n", len(res.Created), w.Slug)
	for _, f := range res.Failures {
		fmt.Fprintf(out, "  #%d %q: %s\n", f.Index+1, f.Name, f.Error)
	}
	if len(res.Failures) > 0 {
		return fmt.Errorf("%d household(s) failed", len(res.Failures))
	}
	return nil
}

func parseHouseholdsFile(r io.Reader) ([]householdEntry, error) {
	var doc householdsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("households file is empty")
		}
		return nil, fmt.Errorf("parse households file: %w", err)
	}
	if len(doc.Households) == 0 {
		return nil, fmt.Errorf("households file lists no households")
	}
	return doc.Households, nil
}

// toHouseholdInputs resolves event names against the wedding's events.
func toHouseholdInputs(weddingID uuid.UUID, entries []householdEntry, events []*types.Event) ([]domainagg.CreateHouseholdInput, error) {
	byName := make(map[string]uuid.UUID, len(events))
	for _, ev := range events {
		byName[strings.ToLower(strings.TrimSpace(ev.Name))] = ev.ID
	}

	out := make([]domainagg.CreateHouseholdInput, 0, len(entries))
	for i, e := range entries {
		in := domainagg.CreateHouseholdInput{
			WeddingID: weddingID,
			Household: domainagg.HouseholdFields{
				Name:         e.Name,
				AddressLine1: e.AddressLine1,
				AddressLine2: e.AddressLine2,
				City:         e.City,
				State:        e.State,
				PostalCode:   e.PostalCode,
				Country:      e.Country,
				Notes:        e.Notes,
			},
		}
		for _, g := range e.Guests {
			gi := domainagg.GuestInput{
				FirstName: g.FirstName,
				LastName:  g.LastName,
				Email:     g.Email,
				Phone:     g.Phone,
				IsChild:   g.IsChild,
			}
			for _, name := range g.Events {
				id, ok := byName[strings.ToLower(strings.TrimSpace(name))]
				if !ok {
					return nil, fmt.Errorf("household #%d %q: unknown event %q", i+1, e.Name, name)
				}
				gi.InvitedEventIDs = append(gi.InvitedEventIDs, id)
			}
			in.Guests = append(in.Guests, gi)
		}
		if e.Gift != nil {
			in.Gift = &domainagg.GiftInput{
				Description:  e.Gift.Description,
				ReceivedAt:   e.Gift.ReceivedAt,
				ThankYouSent: e.Gift.ThankYouSent,
			}
		}
		out = append(out, in)
	}
	return out, nil
}
