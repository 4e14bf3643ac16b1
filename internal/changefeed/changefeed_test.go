package changefeed

import "testing"

func TestParseToken(t *testing.T) {
	epoch, version, ok := ParseToken("abc-123:42")
	if !ok || epoch != "abc-123" || version != 42 {
		t.Errorf("ParseToken = (%q, %d, %v), want (abc-123, 42, true)", epoch, version, ok)
	}

	for _, bad := range []string{"", "noversion", ":1", "epoch:", "epoch:-1", "epoch:notanumber"} {
		if _, _, ok := ParseToken(bad); ok {
			t.Errorf("ParseToken(%q) should fail", bad)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	token := formatToken("epoch-x", 7)
	epoch, version, ok := ParseToken(token)
	if !ok || epoch != "epoch-x" || version != 7 {
		t.Errorf("round trip failed: %q -> (%q, %d, %v)", token, epoch, version, ok)
	}
}

func TestStoreUnavailableWithoutRedis(t *testing.T) {
	store := NewStore()
	if _, err := store.Bump("d1"); err != ErrUnavailable {
		t.Errorf("Bump without redis: got %v, want ErrUnavailable", err)
	}
	if _, _, err := store.ChangedSince("d1", ""); err != ErrUnavailable {
		t.Errorf("ChangedSince without redis: got %v, want ErrUnavailable", err)
	}
}
