package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zeu5/pacman-rl/types"
)

func result(episode int, ret float64, won bool) types.EpisodeResult {
	return types.EpisodeResult{
		EpisodeSummary: types.EpisodeSummary{Episode: episode, Return: ret, Exploration: 0.5, TableSize: 10 * episode},
		Won:            won,
	}
}

func get(t *testing.T, b *Board, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	b.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	b := NewBoard(context.Background(), ":0", 10, 5)
	w := get(t, b, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestStats(t *testing.T) {
	b := NewBoard(context.Background(), ":0", 2, 2)
	b.Observe(result(1, 10, false))
	b.Observe(result(2, 20, true))
	b.Observe(result(3, 30, true))

	w := get(t, b, "/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Episodes int           `json:"episodes"`
		Summary  types.Summary `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Episodes != 3 || body.Summary.Episodes != 3 {
		t.Errorf("episodes = %d, summary %d", body.Episodes, body.Summary.Episodes)
	}
	if body.Summary.MeanReturn != 20 || body.Summary.RecentMeanReturn != 25 || body.Summary.BestReturn != 30 {
		t.Errorf("summary = %+v", body.Summary)
	}
	if body.Summary.FinalTableSize != 30 {
		t.Errorf("table size = %d", body.Summary.FinalTableSize)
	}
}

func TestEpisodes(t *testing.T) {
	b := NewBoard(context.Background(), ":0", 3, 3)
	for i := 1; i <= 5; i++ {
		b.Observe(result(i, float64(i), false))
	}

	tests := []struct {
		target string
		code   int
		first  int
		count  int
	}{
		{"/episodes", http.StatusOK, 3, 3},
		{"/episodes?limit=2", http.StatusOK, 4, 2},
		{"/episodes?limit=50", http.StatusOK, 3, 3},
		{"/episodes?limit=0", http.StatusBadRequest, 0, 0},
		{"/episodes?limit=abc", http.StatusBadRequest, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, b, tt.target)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			if tt.code != http.StatusOK {
				return
			}
			var body struct {
				Episodes []types.EpisodeResult `json:"episodes"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Episodes) != tt.count || body.Episodes[0].Episode != tt.first {
				t.Errorf("episodes = %+v", body.Episodes)
			}
		})
	}
}
