package analytics

import (
	"net/http"

	"github.com/he2-ai/backoffice-backend/api/responses"
	internalanalytics "github.com/he2-ai/backoffice-backend/internal/analytics"
	pkgerrors "github.com/he2-ai/backoffice-backend/pkg/errors"
	"github.com/he2-ai/backoffice-backend/pkg/logger"
)

// Demographics aggregates the user base by geography, plan, account type, and
// signup month under the requested filters.
func Demographics(service internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		query, err := resolveDemographicsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := service.Demographics(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
