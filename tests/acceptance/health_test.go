package acceptance

import (
	"net/http"
)

func (s *Suite) TestHealthEndpoint() {
	resp := s.request(http.MethodGet, "/health", "", nil)

	s.Equal(http.StatusOK, resp.StatusCode, "Expected status 200")

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	s.decode(resp, &body)
	s.Equal("pass", body.Status)
	s.Equal(map[string]string{"postgres": "pass", "redis": "pass"}, body.Checks)
}

func (s *Suite) TestMetricsEndpoint() {
	resp := s.request(http.MethodGet, "/metrics", "", nil)

	s.Equal(http.StatusOK, resp.StatusCode)
}
