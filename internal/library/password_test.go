package library

import "testing"

func TestDerivePassword(t *testing.T) {
	cases := []struct {
		name, mobile, want string
	}{
		{"Ravi Kumar", "9876543210", "RAVI3210"},
		{"Amit Shah", "9123456789", "AMIT6789"},
		{"  amit shah  ", "9123456789", "AMIT6789"},
		{"Jo Li", "9000001234", "JOL1234"},
		{"R. K. Singh", "9000005678", "RK5678"},
		{"Ann", "9000004321", "ANN4321"},
		{"O'Neil", "9000000001", "ONEI0001"},
		{"123", "9000000002", "0002"},
	}
	for _, c := range cases {
		if got := DerivePassword(c.name, c.mobile); got != c.want {
			t.Errorf("DerivePassword(%q, %q) = %q, want %q", c.name, c.mobile, got, c.want)
		}
	}
}

func TestDerivePasswordDeterministic(t *testing.T) {
	a := DerivePassword("Sita Devi", "9988776655")
	for i := 0; i < 5; i++ {
		if b := DerivePassword("Sita Devi", "9988776655"); b != a {
			t.Fatalf("run %d: %q != %q", i, b, a)
		}
	}
}

func TestIsMobile(t *testing.T) {
	for in, want := range map[string]bool{
		"9123456789":  true,
		"912345678":   false,
		"91234567890": false,
		"91234a6789":  false,
	} {
		if got := isMobile(in); got != want {
			t.Errorf("isMobile(%q) = %v", in, got)
		}
	}
}
