package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

func TestHash_Empty(t *testing.T) {
	got := Hash(nil).String()
	want := "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
	if got != want {
		t.Errorf("Hash(nil) = %s, want %s", got, want)
	}
}

func TestAccountHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "ed25519",
			input: "010203040506070809000a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
			want:  "e716ec559ed25d5ed8386e380e3b1dace4fd77dc3b5dee3358e247911e3c8dbd",
		},
		{
			name:  "secp256k1",
			input: "02030203040506070809000a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20",
			want:  "7f4b5cd600f392adcccbe52600da10f07a2bf6ac1ee311891be16e749618ed07",
		},
		{
			name:  "uppercase input",
			input: strings.ToUpper("010203040506070809000a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"),
			want:  "e716ec559ed25d5ed8386e380e3b1dace4fd77dc3b5dee3358e247911e3c8dbd",
		},
		{name: "malformed hex", input: "01zz", wantErr: true},
		{name: "unknown tag", input: "03" + strings.Repeat("00", 32), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AccountHash(tt.input)
			if tt.wantErr {
				if !errors.Is(err, types.ErrInvalidKeyFormat) {
					t.Fatalf("AccountHash() error = %v, want ErrInvalidKeyFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AccountHash() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AccountHash() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAccountHash_Deterministic(t *testing.T) {
	const pk = "010203040506070809000a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
	a, _ := AccountHash(pk)
	b, _ := AccountHash(pk)
	if a != b {
		t.Error("AccountHash should be deterministic")
	}
}

func TestMatchesAccountHash(t *testing.T) {
	const pk = "010203040506070809000a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
	const ah = "e716ec559ed25d5ed8386e380e3b1dace4fd77dc3b5dee3358e247911e3c8dbd"

	if !MatchesAccountHash(pk, ah) {
		t.Error("plain account hash should match")
	}
	if !MatchesAccountHash(pk, "account-hash-"+strings.ToUpper(ah)) {
		t.Error("prefixed uppercase account hash should match")
	}
	if MatchesAccountHash(pk, strings.Repeat("0", 64)) {
		t.Error("unrelated hash should not match")
	}
	if MatchesAccountHash("nothex", ah) {
		t.Error("malformed key should not match")
	}
}
