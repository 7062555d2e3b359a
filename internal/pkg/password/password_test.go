package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals cleartext")
	}
	if !Verify("correct horse battery", hash) {
		t.Error("verify rejected the right password")
	}
	if Verify("wrong password", hash) {
		t.Error("verify accepted the wrong password")
	}
}

func TestVerifyBadHash(t *testing.T) {
	if Verify("anything", "not-a-bcrypt-hash") {
		t.Error("verify accepted a malformed hash")
	}
}

func TestValidate(t *testing.T) {
	if Validate("short") {
		t.Error("accepted password under minimum length")
	}
	if !Validate("long enough") {
		t.Error("rejected valid password")
	}
}
