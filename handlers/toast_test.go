package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pocketbase/pocketbase/core"
)

func newToastEvent(rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	e.Response = rec
	return e
}

func decodeTrigger(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var events map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("HX-Trigger %q is not a JSON object: %v", rec.Header().Get("HX-Trigger"), err)
	}
	return events
}

func TestSetToast_TriggerAndFlashCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetToast(newToastEvent(rec), "success", `Quote "QT-2026-001" saved`)

	var got toast
	if err := json.Unmarshal(decodeTrigger(t, rec)["showToast"], &got); err != nil {
		t.Fatalf("showToast: %v", err)
	}
	want := toast{Message: `Quote "QT-2026-001" saved`, Type: "success"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toast mismatch (-want +got):\n%s", diff)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != flashToastCookie {
		t.Fatalf("expected one %s cookie, got %v", flashToastCookie, cookies)
	}
	raw, err := url.QueryUnescape(cookies[0].Value)
	if err != nil {
		t.Fatalf("unescape cookie: %v", err)
	}
	var flash toast
	if err := json.Unmarshal([]byte(raw), &flash); err != nil || flash != want {
		t.Errorf("flash cookie = %q (%v)", raw, err)
	}
}

func TestSetToast_KeepsExistingEvents(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     []string
	}{
		{"json_object", `{"totalsChanged":{"id":"abc"}}`, []string{"showToast", "totalsChanged"}},
		{"event_names", "totalsChanged, itemsImported", []string{"itemsImported", "showToast", "totalsChanged"}},
		{"broken_json", `{"totalsChanged":`, []string{"showToast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rec.Header().Set("HX-Trigger", tt.existing)
			SetToast(newToastEvent(rec), "info", "Rows imported")

			var names []string
			for name := range decodeTrigger(t, rec) {
				names = append(names, name)
			}
			if diff := cmp.Diff(tt.want, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetToast_SecondToastReplacesFirst(t *testing.T) {
	rec := httptest.NewRecorder()
	e := newToastEvent(rec)
	SetToast(e, "warning", "first")
	SetToast(e, "success", "second")

	var got toast
	if err := json.Unmarshal(decodeTrigger(t, rec)["showToast"], &got); err != nil {
		t.Fatalf("showToast: %v", err)
	}
	if got.Message != "second" || got.Type != "success" {
		t.Errorf("toast = %+v, want the second one", got)
	}
}

func TestErrorToast(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := ErrorToast(newToastEvent(rec), status, "Quote not found"); err != nil {
				t.Fatalf("ErrorToast: %v", err)
			}
			if rec.Code != status {
				t.Errorf("status = %d, want %d", rec.Code, status)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Errorf("HX-Reswap = %q, want none", rec.Header().Get("HX-Reswap"))
			}
			if rec.Body.String() != "Quote not found" {
				t.Errorf("body = %q", rec.Body.String())
			}
			var got toast
			if err := json.Unmarshal(decodeTrigger(t, rec)["showToast"], &got); err != nil || got.Type != "error" {
				t.Errorf("showToast = %+v (%v), want an error toast", got, err)
			}
		})
	}
}
