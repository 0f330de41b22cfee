package htm

import (
	"testing"
)

func TestStatusStarted(t *testing.T) {
	if !Started(StatusStarted) {
		t.Error("StatusStarted must be classified as started")
	}
	if Started(0) || Started(AbortRetry) || Started(ExplicitStatus(CodeContention)) {
		t.Error("abort statuses must not be classified as started")
	}
}

func TestExplicitStatusRoundTrip(t *testing.T) {
	for _, code := range []uint8{0x00, 0x21, CodeReservedMin, CodeContention} {
		status := ExplicitStatus(code)

		if Started(status) {
			t.Errorf("code 0x%02x: explicit abort classified as started", code)
		}
		if !IsExplicit(status) {
			t.Errorf("code 0x%02x: status not classified as explicit", code)
		}
		if got := AbortCode(status); got != code {
			t.Errorf("code 0x%02x: AbortCode returned 0x%02x", code, got)
		}
	}
}

func TestContentionClassification(t *testing.T) {
	if !IsContentionAbort(ExplicitStatus(CodeContention)) {
		t.Error("reserved contention code not recognized")
	}

	// Explicit aborts with user codes must never read as contention.
	for _, code := range []uint8{0x00, 0x42, 0xEF} {
		if IsContentionAbort(ExplicitStatus(code)) {
			t.Errorf("user abort code 0x%02x misclassified as contention", code)
		}
	}

	// Non-explicit aborts carry no code at all.
	if IsContentionAbort(AbortConflict | AbortRetry) {
		t.Error("conflict abort misclassified as contention")
	}
	if IsContentionAbort(0) {
		t.Error("plain abort misclassified as contention")
	}
}

func TestMayRetry(t *testing.T) {
	if !MayRetry(AbortConflict | AbortRetry) {
		t.Error("retry bit not detected")
	}
	if MayRetry(AbortCapacity) {
		t.Error("capacity abort without retry bit reported as retryable")
	}
	if MayRetry(StatusStarted) {
		t.Error("started status reported as retryable")
	}
}

func TestDisabledProvider(t *testing.T) {
	p := Disabled()

	status := p.Begin()
	if Started(status) {
		t.Fatal("Disabled provider must never start a transaction")
	}
	if MayRetry(status) {
		t.Error("Disabled provider must not hint a retry")
	}
	if IsExplicit(status) {
		t.Error("Disabled provider abort must not read as explicit")
	}

	defer func() {
		if recover() == nil {
			t.Error("Commit on Disabled provider must panic")
		}
	}()
	p.Commit()
}

func TestAutoReturnsProvider(t *testing.T) {
	if Auto() == nil {
		t.Fatal("Auto returned nil")
	}
	if !Supported() {
		if _, ok := Auto().(disabledProvider); !ok {
			t.Error("Auto must return the Disabled provider without RTM support")
		}
	}
}
