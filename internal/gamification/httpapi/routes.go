// Package httpapi: 운영용 HTTP 엔드포인트. 도메인 트래픽은 스트림으로만 들어오고,
// HTTP 표면은 헬스체크 등 운영 경로만 노출한다.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/park285/eco-report-bots/gamification-go/internal/common/health"
	commonhttputil "github.com/park285/eco-report-bots/gamification-go/internal/common/httputil"
)

// Register HTTP API 라우트 등록.
func Register(mux *http.ServeMux, logger *slog.Logger) {
	// GET /health - 헬스체크
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := commonhttputil.WriteJSON(w, http.StatusOK, health.Get()); err != nil {
			logger.Warn("health_response_failed", "err", err)
		}
	})

	logger.Info("gamification_http_api_registered")
}
