package api

import (
	"context"

	"github.com/Khan/genqlient/graphql"
)

// DonationTier is a suggested donation amount on a campaign.
type DonationTier struct {
	Amount float64 `json:"amount"`
	Label  string  `json:"label"`
}

// GetAmount returns DonationTier.Amount.
func (v *DonationTier) GetAmount() float64 { return v.Amount }

// GetLabel returns DonationTier.Label.
func (v *DonationTier) GetLabel() string { return v.Label }

// Campaign is a fundraising campaign.
type Campaign struct {
	Typename      string         `json:"__typename"`
	Id            string         `json:"id"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Goal          float64        `json:"goal"`
	Raised        float64        `json:"raised"`
	Currency      string         `json:"currency"`
	DonationTiers []DonationTier `json:"donationTiers"`
}

// GetId returns Campaign.Id.
func (v *Campaign) GetId() string { return v.Id }

// GetSlug returns Campaign.Slug.
func (v *Campaign) GetSlug() string { return v.Slug }

// GetTitle returns Campaign.Title.
func (v *Campaign) GetTitle() string { return v.Title }

// GetDonationTiers returns Campaign.DonationTiers.
func (v *Campaign) GetDonationTiers() []DonationTier { return v.DonationTiers }

// GetCampaignResponse is returned by GetCampaign on success.
type GetCampaignResponse struct {
	Campaign *Campaign `json:"campaign"`
}

// GetCampaign returns GetCampaignResponse.Campaign.
func (v *GetCampaignResponse) GetCampaign() *Campaign { return v.Campaign }

// __GetCampaignInput is used internally by genqlient
type __GetCampaignInput struct {
	Slug string `json:"slug"`
}

// The query executed by GetCampaign.
const GetCampaign_Operation = `
query GetCampaign ($slug: String!) {
	campaign(slug: $slug) {
		__typename
		id
		slug
		title
		goal
		raised
		currency
		donationTiers {
			amount
			label
		}
	}
}
`

// GetCampaign fetches a campaign by slug from API v1.
func GetCampaign(
	ctx_ context.Context,
	client_ graphql.Client,
	slug string,
) (*GetCampaignResponse, error) {
	req_ := &graphql.Request{
		OpName: "GetCampaign",
		Query:  GetCampaign_Operation,
		Variables: &__GetCampaignInput{
			Slug: slug,
		},
	}
	var err_ error

	var data_ GetCampaignResponse
	resp_ := &graphql.Response{Data: &data_}

	err_ = client_.MakeRequest(
		WithAPIVersion(ctx_, APIVersion1),
		req_,
		resp_,
	)

	return &data_, err_
}

// DonationInput describes a donation to create.
type DonationInput struct {
	CampaignSlug string  `json:"campaignSlug"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	DonorEmail   string  `json:"donorEmail,omitempty"`
}

// DonationCampaign is the campaign totals returned with a new donation.
type DonationCampaign struct {
	Typename string  `json:"__typename"`
	Id       string  `json:"id"`
	Raised   float64 `json:"raised"`
}

// Donation is a completed donation.
type Donation struct {
	Typename string           `json:"__typename"`
	Id       string           `json:"id"`
	Amount   float64          `json:"amount"`
	Currency string           `json:"currency"`
	Campaign DonationCampaign `json:"campaign"`
}

// GetId returns Donation.Id.
func (v *Donation) GetId() string { return v.Id }

// GetCampaign returns Donation.Campaign.
func (v *Donation) GetCampaign() DonationCampaign { return v.Campaign }

// CreateDonationResponse is returned by CreateDonation on success.
type CreateDonationResponse struct {
	CreateDonation *Donation `json:"createDonation"`
}

// GetCreateDonation returns CreateDonationResponse.CreateDonation.
func (v *CreateDonationResponse) GetCreateDonation() *Donation { return v.CreateDonation }

// __CreateDonationInput is used internally by genqlient
type __CreateDonationInput struct {
	Input DonationInput `json:"input"`
}

// The mutation executed by CreateDonation.
const CreateDonation_Operation = `
mutation CreateDonation ($input: DonationInput!) {
	createDonation(input: $input) {
		__typename
		id
		amount
		currency
		campaign {
			__typename
			id
			raised
		}
	}
}
`

// CreateDonation records a donation. Checkout lives on API v2, so the
// mutation is always routed there.
func CreateDonation(
	ctx_ context.Context,
	client_ graphql.Client,
	input DonationInput,
) (*CreateDonationResponse, error) {
	req_ := &graphql.Request{
		OpName: "CreateDonation",
		Query:  CreateDonation_Operation,
		Variables: &__CreateDonationInput{
			Input: input,
		},
	}
	var err_ error

	var data_ CreateDonationResponse
	resp_ := &graphql.Response{Data: &data_}

	err_ = client_.MakeRequest(
		WithAPIVersion(ctx_, APIVersion2),
		req_,
		resp_,
	)

	return &data_, err_
}
