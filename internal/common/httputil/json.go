package httputil

import (
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// ContentTypeJSON: JSON 응답을 위한 Content-Type 헤더 값
const ContentTypeJSON = "application/json"

// WriteJSON: 데이터를 JSON으로 인코딩하여 HTTP 응답으로 전송한다.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json failed: %w", err)
	}
	return nil
}
