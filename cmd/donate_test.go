package cmd_test

import (
	"strings"
	"testing"
)

func TestDonate_Success(t *testing.T) {
	t.Parallel()

	server := newMockGraphQLServer(t, map[string]string{"CreateDonation": createDonationResponse})
	opts, stdout, _ := testOptions(t, server)

	if err := run(opts, "donate", "clean-water", "--amount", "25", "--currency", "usd", "--email", "a@b.test"); err != nil {
		t.Fatalf("donate returned error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"Donation recorded: d1", "Amount: 25.00 USD", "Campaign total: 2525.00 USD"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	req, _, path := server.last(t)
	if path != "/v2" {
		t.Errorf("path = %q, want /v2", path)
	}
	vars := string(req.Variables)
	for _, want := range []string{`"campaignSlug":"clean-water"`, `"amount":25`, `"currency":"USD"`, `"donorEmail":"a@b.test"`} {
		if !strings.Contains(vars, want) {
			t.Errorf("variables %s missing %s", vars, want)
		}
	}
}

func TestDonate_EachRunReachesServer(t *testing.T) {
	t.Parallel()

	server := newMockGraphQLServer(t, map[string]string{"CreateDonation": createDonationResponse})
	opts, _, _ := testOptions(t, server)

	for i := 0; i < 2; i++ {
		if err := run(opts, "donate", "clean-water", "--amount", "25"); err != nil {
			t.Fatalf("donate run %d returned error: %v", i, err)
		}
	}
	if n := server.count(); n != 2 {
		t.Errorf("server received %d requests, want 2", n)
	}
}

func TestDonate_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing amount", args: []string{"donate", "clean-water"}, wantErr: "amount"},
		{name: "zero amount", args: []string{"donate", "clean-water", "--amount", "0"}, wantErr: "greater than zero"},
		{name: "negative amount", args: []string{"donate", "clean-water", "--amount", "-5"}, wantErr: "greater than zero"},
		{name: "missing slug", args: []string{"donate", "--amount", "5"}, wantErr: "arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, _, _ := testOptions(t, nil)
			err := run(opts, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
