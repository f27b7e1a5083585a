package library

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"LWA-backend/internal/platform/auth"
)

type apiHarness struct {
	t      *testing.T
	svc    *Service
	router *gin.Engine
}

func newAPI(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	tokens := auth.NewService(svc.Authenticator(), []byte("test"), time.Hour)

	r := gin.New()
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, tokens, AuthStatus)
	RegisterRoutes(api, svc, tokens.Secret())
	return &apiHarness{t: t, svc: svc, router: r}
}

func (h *apiHarness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *apiHarness) login(loginType, mobile, password string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"loginType": loginType, "mobile": mobile, "password": password,
	})
	if w.Code != http.StatusOK {
		h.t.Fatalf("login %s = %d %s", loginType, w.Code, w.Body)
	}
	var resp auth.LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token
}

func TestAPIOwnerFlow(t *testing.T) {
	h := newAPI(t)
	owner := h.login(RoleOwner, "6201530654", "Avinash")

	w := h.do(http.MethodPost, "/api/v1/students", owner, amit())
	if w.Code != http.StatusCreated {
		t.Fatalf("create student = %d %s", w.Code, w.Body)
	}
	var st Student
	_ = json.Unmarshal(w.Body.Bytes(), &st)

	if w := h.do(http.MethodPost, "/api/v1/students", owner, amit()); w.Code != http.StatusConflict {
		t.Fatalf("duplicate = %d", w.Code)
	}

	booking := CreateBookingRequest{StudentID: st.ID, Seat: 5, Shift: 2}
	if w := h.do(http.MethodPost, "/api/v1/bookings", owner, booking); w.Code != http.StatusCreated {
		t.Fatalf("book = %d %s", w.Code, w.Body)
	}
	if w := h.do(http.MethodPost, "/api/v1/bookings", owner, booking); w.Code != http.StatusConflict {
		t.Fatalf("double book = %d", w.Code)
	}

	w = h.do(http.MethodGet, "/api/v1/students/"+st.ID+"/payment", owner, nil)
	var due StudentPaymentResponse
	_ = json.Unmarshal(w.Body.Bytes(), &due)
	if due.Due != 300 || due.Shifts != 1 {
		t.Fatalf("due = %+v", due)
	}

	w = h.do(http.MethodPost, "/api/v1/payments", owner, map[string]any{
		"studentId": st.ID, "year": 2024, "month": 3, "amount": 300,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("payment = %d %s", w.Code, w.Body)
	}

	w = h.do(http.MethodDelete, "/api/v1/bookings?seat=5&shift=2", owner, nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"removed":1}` {
		t.Fatalf("unbook = %d %s", w.Code, w.Body)
	}

	if w := h.do(http.MethodDelete, "/api/v1/students/"+st.ID, owner, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := h.do(http.MethodDelete, "/api/v1/students/"+st.ID, owner, nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete again = %d", w.Code)
	}

	w = h.do(http.MethodGet, "/api/v1/state", owner, nil)
	if _, err := Decode(w.Body.Bytes()); err != nil {
		t.Fatalf("state export not decodable: %v", err)
	}
}

func TestAPIStudentSelfService(t *testing.T) {
	h := newAPI(t)
	st := mustAdd(t, h.svc, amit())
	tok := h.login(RoleStudent, "9123456789", "AMIT6789")

	if w := h.do(http.MethodGet, "/api/v1/students", tok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("student listing students = %d", w.Code)
	}

	w := h.do(http.MethodPost, "/api/v1/me/checkin", tok, CheckInRequest{Code: "LibraryWorkAutomate_StaticQR_v1"})
	if w.Code != http.StatusOK {
		t.Fatalf("checkin = %d %s", w.Code, w.Body)
	}
	w = h.do(http.MethodPost, "/api/v1/me/checkout", tok, CheckOutRequest{Out: "11:00"})
	if w.Code != http.StatusOK {
		t.Fatalf("checkout = %d %s", w.Code, w.Body)
	}

	w = h.do(http.MethodGet, "/api/v1/me", tok, nil)
	var me MeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if me.Student.ID != st.ID || me.Today == nil || me.Today.Times[0] != (TimePair{In: "09:30", Out: "11:00"}) {
		t.Fatalf("me = %+v", me)
	}
}

func TestAPIBadLogin(t *testing.T) {
	h := newAPI(t)
	w := h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"loginType": "owner", "mobile": "6201530654", "password": "nope",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Invalid owner credentials")) {
		t.Fatalf("body = %s", w.Body)
	}
}

func TestAPIRejectsIncompleteWrites(t *testing.T) {
	h := newAPI(t)
	owner := h.login(RoleOwner, "6201530654", "Avinash")

	w := h.do(http.MethodPost, "/api/v1/students", owner, amit())
	var st Student
	_ = json.Unmarshal(w.Body.Bytes(), &st)

	w = h.do(http.MethodPost, "/api/v1/payments", owner, map[string]any{
		"studentId": st.ID, "year": 2024, "month": 3,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("payment without amount = %d %s", w.Code, w.Body)
	}

	w = h.do(http.MethodPost, "/api/v1/attendance", owner, MarkAttendanceRequest{StudentID: "missing", In: "08:00"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("attendance for unknown student = %d %s", w.Code, w.Body)
	}
	w = h.do(http.MethodPost, "/api/v1/attendance", owner, MarkAttendanceRequest{StudentID: st.ID, In: "08:00"})
	if w.Code != http.StatusOK {
		t.Fatalf("attendance = %d %s", w.Code, w.Body)
	}

	snap := h.svc.Snapshot()
	if len(snap.Payments) != 0 || len(snap.Attendance) != 1 {
		t.Fatalf("payments = %d, attendance = %d", len(snap.Payments), len(snap.Attendance))
	}
}
