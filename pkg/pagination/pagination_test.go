package pagination

import (
	"testing"
	"time"

	"NewTube.com/pkg/errno"
)

func TestCheckLimit(t *testing.T) {
	for _, limit := range []int{1, 20, 100} {
		if err := CheckLimit(limit); err != nil {
			t.Errorf("CheckLimit(%d) = %v, want nil", limit, err)
		}
	}
	for _, limit := range []int{-1, 0, 101} {
		if err := CheckLimit(limit); !errno.Is(err, errno.ParamErr) {
			t.Errorf("CheckLimit(%d) = %v, want ParamErr", limit, err)
		}
	}
}

func TestParseTimeCursor(t *testing.T) {
	id := "7f3c2a3e-9f3a-4c7e-8d0a-1c2b3d4e5f60"

	t.Run("FirstPage", func(t *testing.T) {
		c, err := ParseTimeCursor("", "")
		if err != nil || c != nil {
			t.Fatalf("got %v, %v; want nil, nil", c, err)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		c, err := ParseTimeCursor(id, "2026-10-16T08:30:00.123456789+02:00")
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2026, 10, 16, 6, 30, 0, 123456789, time.UTC)
		if c.Id != id || !c.SortKeyValue.Equal(want) {
			t.Errorf("got %+v", c)
		}
		if c.SortKeyValue.Location() != time.UTC {
			t.Errorf("cursor time must be UTC, got %v", c.SortKeyValue.Location())
		}
	})

	bad := []struct{ name, id, value string }{
		{"MissingValue", id, ""},
		{"MissingId", "", "2026-10-16T08:30:00Z"},
		{"BadId", "c", "2026-10-16T08:30:00Z"},
		{"BadValue", id, "yesterday"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTimeCursor(tc.id, tc.value); !errno.Is(err, errno.ParamErr) {
				t.Errorf("err = %v, want ParamErr", err)
			}
		})
	}
}

func TestParseCountCursor(t *testing.T) {
	id := "7f3c2a3e-9f3a-4c7e-8d0a-1c2b3d4e5f60"
	c, err := ParseCountCursor(id, "42")
	if err != nil || c.SortKeyValue != 42 || c.Id != id {
		t.Fatalf("got %+v, %v", c, err)
	}
	if _, err := ParseCountCursor(id, "-1"); !errno.Is(err, errno.ParamErr) {
		t.Errorf("negative count must be rejected, got %v", err)
	}
	if _, err := ParseCountCursor(id, "many"); !errno.Is(err, errno.ParamErr) {
		t.Errorf("non numeric count must be rejected, got %v", err)
	}
}

type row struct {
	id string
	at int64
}

func keyOf(r row) Cursor[int64] { return Cursor[int64]{Id: r.id, SortKeyValue: r.at} }

func TestCut(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		page := Cut[row, int64](nil, 2, keyOf)
		if page.Items == nil || len(page.Items) != 0 {
			t.Errorf("items = %#v, want empty slice", page.Items)
		}
		if page.NextCursor != nil {
			t.Errorf("next cursor = %+v, want nil", page.NextCursor)
		}
	})

	t.Run("ExactlyLimit", func(t *testing.T) {
		page := Cut([]row{{"d", 3}, {"c", 3}}, 2, keyOf)
		if len(page.Items) != 2 || page.NextCursor != nil {
			t.Errorf("got %d items, cursor %+v; want 2 items and no cursor", len(page.Items), page.NextCursor)
		}
	})

	t.Run("MoreThanLimit", func(t *testing.T) {
		page := Cut([]row{{"d", 3}, {"c", 3}, {"b", 2}}, 2, keyOf)
		if len(page.Items) != 2 {
			t.Fatalf("got %d items, want 2", len(page.Items))
		}
		if page.NextCursor == nil || page.NextCursor.Id != "c" || page.NextCursor.SortKeyValue != 3 {
			t.Errorf("next cursor = %+v, want {c 3}", page.NextCursor)
		}
	})
}
