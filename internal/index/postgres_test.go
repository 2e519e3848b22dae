package index

import (
	"errors"
	"testing"

	"auctionScope/internal/model"
)

func TestParseTimestamp(t *testing.T) {
	got, err := parseTimestamp("auction_opened", "end_time", " 1700000000 ")
	if err != nil {
		t.Fatalf("parseTimestamp: %v", err)
	}
	if got != 1700000000 {
		t.Fatalf("got %d", got)
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	_, err := parseTimestamp("auction_opened", "end_time", "not-a-number")
	if err == nil {
		t.Fatal("expected error")
	}
	var decodeErr *model.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T", err)
	}
	if decodeErr.Field != "end_time" {
		t.Fatalf("field = %q", decodeErr.Field)
	}
}
