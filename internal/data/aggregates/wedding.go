package aggregates

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

const fallbackSlug = "wedding"

type WeddingAggregateDeps struct {
	Base BaseDeps

	Weddings    repos.WeddingRepo
	Members     repos.WeddingMemberRepo
	Settings    repos.WebsiteSettingsRepo
	Events      repos.EventRepo
	Households  repos.HouseholdRepo
	Guests      repos.GuestRepo
	Invitations repos.InvitationRepo
	Gifts       repos.GiftRepo
	Questions   repos.QuestionRepo
	Answers     repos.AnswerRepo
}

type weddingAggregate struct {
	deps WeddingAggregateDeps
}

func NewWeddingAggregate(deps WeddingAggregateDeps) domainagg.WeddingAggregate {
	deps.Base = deps.Base.withDefaults()
	return &weddingAggregate{deps: deps}
}

func (a *weddingAggregate) Contract() domainagg.Contract {
	return domainagg.WeddingAggregateContract
}

func (a *weddingAggregate) Create(ctx context.Context, in domainagg.CreateWeddingInput) (domainagg.CreateWeddingResult, error) {
	const op = "Wedding.Tenant.Create"
	var out domainagg.CreateWeddingResult
	if in.CreatorUserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing creator user id", nil)
	}
	if a.deps.Weddings == nil || a.deps.Members == nil || a.deps.Settings == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "wedding aggregate repos not configured", nil)
	}
	partnerOne := normalize.Text(in.PartnerOne)
	partnerTwo := normalize.Text(in.PartnerTwo)
	if partnerOne == "" || partnerTwo == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "both partner names are required", nil)
	}

	explicit := strings.TrimSpace(in.Slug) != ""
	slug := normalize.Slug(in.Slug)
	if explicit {
		if !normalize.ValidSlug(slug) {
			return out, domainagg.NewError(domainagg.CodeValidation, op,
				fmt.Sprintf("slug must be %d-%d characters of a-z, 0-9 and dashes", normalize.MinSlugLen, normalize.MaxSlugLen), nil)
		}
	} else {
		slug = normalize.CoupleSlug(partnerOne, partnerTwo)
		if !normalize.ValidSlug(slug) || slug == "and" {
			slug = fallbackSlug
		}
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		taken, err := a.deps.Weddings.SlugsWithPrefix(dbc, slug)
		if err != nil {
			return err
		}
		final := slug
		if explicit {
			for _, t := range taken {
				if t == slug {
					return ConflictError(fmt.Sprintf("slug %q is already taken", slug))
				}
			}
		} else {
			queried := map[string]bool{slug: true}
			for {
				candidate, stem := uniqueSlug(slug, taken)
				if queried[stem] {
					final = candidate
					break
				}
				// base-N may be truncated below base, so its siblings need their own lookup.
				queried[stem] = true
				more, err := a.deps.Weddings.SlugsWithPrefix(dbc, stem)
				if err != nil {
					return err
				}
				taken = append(taken, more...)
			}
		}

		w := &types.Wedding{
			Slug:            final,
			PartnerOne:      partnerOne,
			PartnerTwo:      partnerTwo,
			Date:            in.Date,
			Location:        normalize.Text(in.Location),
			TimeZone:        strings.TrimSpace(in.TimeZone),
			CreatedByUserID: in.CreatorUserID,
		}
		if _, err := a.deps.Weddings.Create(dbc, []*types.Wedding{w}); err != nil {
			return err
		}
		if err := a.deps.Members.Create(dbc, []*types.WeddingMember{{
			WeddingID: w.ID,
			UserID:    in.CreatorUserID,
			Role:      wedding.RoleOwner,
		}}); err != nil {
			return err
		}
		if err := a.deps.Settings.Create(dbc, &types.WebsiteSettings{
			WeddingID: w.ID,
			Published: false,
			Headline:  partnerOne + " & " + partnerTwo,
			Theme:     "classic",
			Sections:  datatypes.JSON("[]"),
		}); err != nil {
			return err
		}
		out = domainagg.CreateWeddingResult{WeddingID: w.ID, Slug: final}
		return nil
	})
	return out, err
}

func (a *weddingAggregate) Delete(ctx context.Context, in domainagg.DeleteWeddingInput) error {
	const op = "Wedding.Tenant.Delete"
	if in.WeddingID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id", nil)
	}
	d := a.deps
	if d.Weddings == nil || d.Members == nil || d.Settings == nil || d.Events == nil || d.Households == nil ||
		d.Guests == nil || d.Invitations == nil || d.Gifts == nil || d.Questions == nil || d.Answers == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "wedding aggregate repos not configured", nil)
	}
	return executeWrite(ctx, d.Base, op, func(dbc dbctx.Context) error {
		w, err := d.Weddings.GetByID(dbc, in.WeddingID)
		if err != nil {
			return err
		}
		if w == nil {
			return NotFoundError("wedding not found")
		}
		// children before parents
		steps := []func(dbctx.Context, uuid.UUID) error{
			d.Answers.DeleteByWeddingID,
			d.Questions.DeleteByWeddingID,
			d.Invitations.DeleteByWeddingID,
			d.Gifts.DeleteByWeddingID,
			d.Guests.DeleteByWeddingID,
			d.Households.DeleteByWeddingID,
			d.Events.DeleteByWeddingID,
			d.Settings.DeleteByWeddingID,
			d.Members.DeleteByWeddingID,
			d.Weddings.FullDeleteByID,
		}
		for _, step := range steps {
			if err := step(dbc, w.ID); err != nil {
				return err
			}
		}
		d.Base.Log.Info("wedding deleted", "wedding_id", w.ID, "slug", w.Slug)
		return nil
	})
}

func (a *weddingAggregate) RemoveMember(ctx context.Context, in domainagg.RemoveMemberInput) error {
	const op = "Wedding.Tenant.RemoveMember"
	if in.WeddingID == uuid.Nil || in.UserID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing wedding_id or user_id", nil)
	}
	if a.deps.Members == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "wedding aggregate repos not configured", nil)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		m, err := a.deps.Members.Get(dbc, in.WeddingID, in.UserID)
		if err != nil {
			return err
		}
		if m == nil {
			return NotFoundError("member not found")
		}
		if m.Role == wedding.RoleOwner {
			owners, err := a.deps.Members.CountOwners(dbc, in.WeddingID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return InvariantError("cannot remove the last owner")
			}
		}
		return a.deps.Members.Delete(dbc, in.WeddingID, in.UserID)
	})
}

// uniqueSlug returns base, or base-N with the smallest N >= 2 not in taken,
// along with the stem the suffix was appended to.
func uniqueSlug(base string, taken []string) (string, string) {
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	if !used[base] {
		return base, base
	}
	for n := 2; ; n++ {
		suffix := "-" + strconv.Itoa(n)
		stem := base
		if len(stem)+len(suffix) > normalize.MaxSlugLen {
			stem = strings.TrimRight(stem[:normalize.MaxSlugLen-len(suffix)], "-")
		}
		if candidate := stem + suffix; !used[candidate] {
			return candidate, stem
		}
	}
}
