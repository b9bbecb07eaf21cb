package seed

import (
	"context"
	"fmt"

	"bibaha/internal/store"
	"bibaha/internal/utils"
	"bibaha/pkg/types"
)

type demoApplicationSeed struct {
	OwnerUserID string
	Status      types.ApplicationStatus
	Sections    types.ApplicationSections
}

// Demo applicants with fixed owner IDs so repeated runs reuse the same rows.
// To generate more IDs: `go run ./cmd/bibaha nanoid`
var demoApplications = []demoApplicationSeed{
	{
		OwnerUserID: "11111111-1111-1111-1111-111111111111",
		Status:      types.ApplicationStatusDraft,
		Sections: types.ApplicationSections{
			OwnerIdentity: &types.PartyIdentity{
				FullName:      utils.StringPtr("Arjun Mondal"),
				FatherName:    utils.StringPtr("Bimal Mondal"),
				MotherName:    utils.StringPtr("Shefali Mondal"),
				DateOfBirth:   utils.StringPtr("1996-04-12"),
				Gender:        utils.StringPtr("male"),
				Nationality:   utils.StringPtr("Indian"),
				AadhaarNumber: utils.StringPtr("234567890123"),
				PhoneNumber:   utils.StringPtr("+91 90000 11111"),
				Email:         utils.StringPtr("arjun.mondal+seed@example.com"),
			},
			OwnerPermanentAddress: &types.Address{
				Line1:      utils.StringPtr("14 Netaji Road"),
				Village:    utils.StringPtr("Ichhapur"),
				PostOffice: utils.StringPtr("Nawabganj"),
				District:   utils.StringPtr("North 24 Parganas"),
				State:      utils.StringPtr("West Bengal"),
				PINCode:    utils.StringPtr("743144"),
			},
		},
	},
	{
		OwnerUserID: "22222222-2222-2222-2222-222222222222",
		Status:      types.ApplicationStatusSubmitted,
		Sections: types.ApplicationSections{
			OwnerIdentity: &types.PartyIdentity{
				FullName:      utils.StringPtr("Priya Ghosh"),
				FatherName:    utils.StringPtr("Tapan Ghosh"),
				MotherName:    utils.StringPtr("Ruma Ghosh"),
				DateOfBirth:   utils.StringPtr("1998-09-03"),
				Gender:        utils.StringPtr("female"),
				Nationality:   utils.StringPtr("Indian"),
				AadhaarNumber: utils.StringPtr("345678901234"),
				PhoneNumber:   utils.StringPtr("+91 90000 22222"),
				Email:         utils.StringPtr("priya.ghosh+seed@example.com"),
			},
			PartnerIdentity: &types.PartyIdentity{
				FullName:      utils.StringPtr("Sourav Das"),
				FatherName:    utils.StringPtr("Gopal Das"),
				DateOfBirth:   utils.StringPtr("1995-01-27"),
				Gender:        utils.StringPtr("male"),
				Nationality:   utils.StringPtr("Indian"),
				AadhaarNumber: utils.StringPtr("456789012345"),
			},
			OwnerPermanentAddress: &types.Address{
				Line1:    utils.StringPtr("7 Station Pally"),
				District: utils.StringPtr("North 24 Parganas"),
				State:    utils.StringPtr("West Bengal"),
				PINCode:  utils.StringPtr("700120"),
			},
			Declarations: types.Declarations{
				"bothUnmarried":   true,
				"noProhibitedKin": true,
				"consentFreely":   true,
				"place":           "Barrackpore",
			},
		},
	},
}

// SeedApplications inserts the demo applications above, skipping owners that
// already have one. Existing rows are never modified: the seed exists to give
// a fresh database a reviewable queue, not to reset state.
func SeedApplications(ctx context.Context, repo *store.ApplicationRepository) error {
	for _, demo := range demoApplications {
		_, err := repo.ByOwner(ctx, demo.OwnerUserID)
		if err == nil {
			continue
		}
		if !types.IsNotFound(err) {
			return fmt.Errorf("failed to check for existing application of %s: %w", demo.OwnerUserID, err)
		}

		app := &types.Application{
			OwnerUserID: demo.OwnerUserID,
			Status:      types.ApplicationStatusDraft,
		}
		app.ApplySections(demo.Sections)

		if err := repo.Create(ctx, app); err != nil {
			return fmt.Errorf("failed to create demo application for %s: %w", demo.OwnerUserID, err)
		}

		if demo.Status == types.ApplicationStatusSubmitted {
			app.Status = types.ApplicationStatusSubmitted
			app.ProgressPercent = 100
			app.SubmittedAt = utils.TimePtr(app.CreatedAt)
			if err := repo.Update(ctx, app); err != nil {
				return fmt.Errorf("failed to submit demo application for %s: %w", demo.OwnerUserID, err)
			}
		}
	}

	return nil
}
