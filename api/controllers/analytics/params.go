package analytics

import (
	"net/http"
	"strings"

	internalanalytics "github.com/he2-ai/backoffice-backend/internal/analytics"
	"github.com/he2-ai/backoffice-backend/internal/demographics"
	"github.com/he2-ai/backoffice-backend/pkg/enums"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
)

// resolveDemographicsQuery parses the filter query parameters, applying the
// dashboard defaults when a parameter is absent.
func resolveDemographicsQuery(r *http.Request) (internalanalytics.DemographicsQuery, error) {
	query := internalanalytics.DemographicsQuery{
		Segment:  enums.UserSegmentExternal,
		Range:    enums.DateRangeAll,
		Referral: demographics.ReferralAll,
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("segment")); raw != "" {
		segment, err := enums.ParseUserSegment(raw)
		if err != nil {
			return query, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid segment")
		}
		query.Segment = segment
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("range")); raw != "" {
		rng, err := enums.ParseDateRange(raw)
		if err != nil {
			return query, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid range")
		}
		query.Range = rng
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("referral")); raw != "" {
		query.Referral = raw
	}

	return query, nil
}
