package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", DefaultLimit, 0},
		{"limit=50&offset=10", 50, 10},
		{"limit=500", MaxLimit, 0},
		{"limit=-1&offset=-5", DefaultLimit, 0},
	}
	for _, tc := range cases {
		p := paramsFor(t, tc.query)
		if p.Limit != tc.limit || p.Offset != tc.offset {
			t.Errorf("query %q: got (%d, %d), want (%d, %d)", tc.query, p.Limit, p.Offset, tc.limit, tc.offset)
		}
	}
}

func TestResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !r.HasMore {
		t.Error("expected more pages")
	}
	r = NewResponse([]int{1}, 1, 20, 0)
	if r.HasMore {
		t.Error("expected last page")
	}
}

func TestOffsets(t *testing.T) {
	p := Params{Limit: 20, Offset: 20}
	if !p.HasPrevious() || p.PreviousOffset() != 0 {
		t.Error("previous page should start at 0")
	}
	if p.NextOffset() != 40 {
		t.Error("next page should start at 40")
	}
	if p.SQL() != "LIMIT 20 OFFSET 20" {
		t.Errorf("SQL() = %q", p.SQL())
	}
}
