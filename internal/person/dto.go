package person

// IdentityResponse represents a canonical identity in API responses
type IdentityResponse struct {
	PrimaryRawID        int64    `json:"primary_raw_id"`
	MemberRawIDs        []int64  `json:"member_raw_ids"`
	Document            string   `json:"document,omitempty"`
	AltDocument         string   `json:"alt_document,omitempty"`
	GivenName           string   `json:"given_name"`
	PaternalSurname     string   `json:"paternal_surname"`
	MaternalSurname     string   `json:"maternal_surname"`
	FullName            string   `json:"full_name"`
	HasDebt             bool     `json:"has_debt"`
	TotalDebt           string   `json:"total_debt"`
	Origin              *string  `json:"origin"`
	Origins             []string `json:"origins"`
	LatestPaymentOrigin *string  `json:"latest_payment_origin"`
}

// ToResponse converts a CanonicalIdentity to an IdentityResponse DTO
func (c CanonicalIdentity) ToResponse() IdentityResponse {
	origins := c.Origins
	if origins == nil {
		origins = []string{}
	}
	return IdentityResponse{
		PrimaryRawID:        c.PrimaryRawID,
		MemberRawIDs:        c.MemberRawIDs,
		Document:            c.DisplayDocument,
		AltDocument:         c.AltDocument,
		GivenName:           c.GivenName,
		PaternalSurname:     c.PaternalSurname,
		MaternalSurname:     c.MaternalSurname,
		FullName:            c.FullName,
		HasDebt:             c.HasDebt,
		TotalDebt:           c.TotalDebt.StringFixed(2),
		Origin:              c.OriginLabel,
		Origins:             origins,
		LatestPaymentOrigin: c.LatestPaymentOrigin,
	}
}
