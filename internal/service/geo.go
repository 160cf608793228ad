package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

// BlockedPurchaseRegions are US states and territories where purchases are
// not offered.
var BlockedPurchaseRegions = []string{
	"California",
	"New Jersey",
	"Washington",
	"Delaware",
	"Rhode Island",
	"Connecticut",
	"District of Columbia",
}

const purchaseCountry = "United States"

const (
	geoReasonUnavailable = "Unable to verify your location. Please try again later."
	geoReasonUnknown     = "Unable to verify your location."
	geoReasonAnonymizer  = "Purchases are not available when using a VPN, proxy, or Tor. Please disable it and try again."
	geoReasonCountry     = "Purchases are only available within the United States."
)

type GeoSecurity struct {
	VPN   bool `json:"vpn"`
	Proxy bool `json:"proxy"`
	Tor   bool `json:"tor"`
	Relay bool `json:"relay"`
}

func (s GeoSecurity) Anonymized() bool {
	return s.VPN || s.Proxy || s.Tor || s.Relay
}

type GeoLocation struct {
	Country string `json:"country"`
	Region  string `json:"region"`
}

// GeoInfo is what a lookup provider knows about an address. Security and
// Location are nil when the provider has no data, e.g. for private ranges.
type GeoInfo struct {
	IP       string       `json:"ip"`
	Security *GeoSecurity `json:"security"`
	Location *GeoLocation `json:"location"`
}

type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (*GeoInfo, error)
}

type GeoResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	IP      string `json:"ip,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// GeoService decides purchase eligibility from the caller's address. Every
// failure denies.
type GeoService struct {
	lookup  GeoLookup
	blocked []string
}

// NewGeoService accepts a nil lookup, in which case every check is denied.
func NewGeoService(lookup GeoLookup) *GeoService {
	return &GeoService{lookup: lookup, blocked: BlockedPurchaseRegions}
}

func (s *GeoService) CheckPurchase(ctx context.Context, ip string) GeoResult {
	if s.lookup == nil {
		log.Ctx(ctx).Warn().Msg("geo lookup not configured, denying purchase check")
		return GeoResult{Reason: geoReasonUnavailable}
	}

	info, err := s.lookup.Lookup(ctx, ip)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("ip", ip).Msg("geo lookup failed")
		return GeoResult{Reason: geoReasonUnavailable}
	}
	if info == nil || info.Security == nil || info.Location == nil {
		log.Ctx(ctx).Warn().Str("ip", ip).Msg("geo lookup returned no security or location data")
		return GeoResult{Reason: geoReasonUnknown}
	}

	result := GeoResult{
		IP:      info.IP,
		State:   info.Location.Region,
		Country: info.Location.Country,
	}

	switch {
	case info.Security.Anonymized():
		result.Reason = geoReasonAnonymizer
	case info.Location.Country != purchaseCountry:
		result.Reason = geoReasonCountry
	case slices.Contains(s.blocked, info.Location.Region):
		result.Reason = fmt.Sprintf("Purchases are currently not available in %s.", info.Location.Region)
	default:
		result.Allowed = true
	}

	log.Ctx(ctx).Debug().
		Str("country", result.Country).
		Str("region", result.State).
		Bool("allowed", result.Allowed).
		Msg("geo purchase check")
	return result
}
