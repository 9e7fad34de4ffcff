package rate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fastbreakhq/campauth/internal/domain/types"
	"github.com/fastbreakhq/campauth/internal/schema"
	"github.com/fastbreakhq/campauth/internal/store/storetest"
)

var devSchema = schema.Schema{Name: schema.Dev, APIKey: "anon"}

func TestStoreLimiter_WindowExhaustion(t *testing.T) {
	fake := storetest.NewFake()
	base := time.UnixMilli(1_700_000_000_000)
	l := &StoreLimiter{Driver: fake, now: func() time.Time { return base }}

	ctx := context.Background()
	// 5 intentos permitidos, el sexto no
	for i := 0; i < 5; i++ {
		res, err := l.Allow(ctx, devSchema, "login:1.2.3.4", 5, time.Minute)
		if err != nil {
			t.Fatalf("Allow #%d err: %v", i+1, err)
		}
		if !res.Allowed {
			t.Fatalf("Allow #%d: expected allowed", i+1)
		}
		if want := 5 - (i + 1); res.Remaining != want {
			t.Fatalf("Allow #%d: remaining=%d want %d", i+1, res.Remaining, want)
		}
	}

	res, err := l.Allow(ctx, devSchema, "login:1.2.3.4", 5, time.Minute)
	if err != nil {
		t.Fatalf("Allow #6 err: %v", err)
	}
	if res.Allowed {
		t.Fatalf("Allow #6: expected rejection")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Fatalf("RetryAfter fuera de rango: %v", res.RetryAfter)
	}
}

func TestStoreLimiter_RejectionNotRecorded(t *testing.T) {
	fake := storetest.NewFake()
	base := time.UnixMilli(1_700_000_000_000)
	l := &StoreLimiter{Driver: fake, now: func() time.Time { return base }}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := l.Allow(ctx, devSchema, "sms:ip", 3, time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	writesBefore := fake.PutCalls

	// Los rechazos no escriben: reintentar no extiende el castigo
	for i := 0; i < 4; i++ {
		res, err := l.Allow(ctx, devSchema, "sms:ip", 3, time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if res.Allowed {
			t.Fatalf("expected rejection on attempt %d", i+4)
		}
	}
	if fake.PutCalls != writesBefore {
		t.Fatalf("rejected attempts were recorded: %d writes after, %d before", fake.PutCalls, writesBefore)
	}
}

func TestStoreLimiter_WindowExpiry(t *testing.T) {
	fake := storetest.NewFake()
	now := time.UnixMilli(1_700_000_000_000)
	l := &StoreLimiter{Driver: fake, now: func() time.Time { return now }}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := l.Allow(ctx, devSchema, "login:ip", 5, time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if res, _ := l.Allow(ctx, devSchema, "login:ip", 5, time.Minute); res.Allowed {
		t.Fatal("expected rejection while window is full")
	}

	// Pasada la ventana desde el intento más viejo, se permite de nuevo
	now = now.Add(time.Minute + time.Second)
	res, err := l.Allow(ctx, devSchema, "login:ip", 5, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatal("expected allowed after window expiry")
	}

	// Y la fila quedó solo con los timestamps vigentes
	var rec types.RateRecord
	if err := json.Unmarshal(fake.Raw(devSchema, types.TableRateLimits, "login:ip"), &rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.Attempts) != 1 {
		t.Fatalf("attempts=%d want 1 (lista filtrada al reescribir)", len(rec.Attempts))
	}
}

func TestStoreLimiter_CorruptRowTreatedAsEmpty(t *testing.T) {
	fake := storetest.NewFake()
	fake.Seed(devSchema, types.TableRateLimits, "login:ip", "not-a-record")
	l := NewStoreLimiter(fake)

	res, err := l.Allow(context.Background(), devSchema, "login:ip", 5, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatal("corrupt row should behave as an empty one")
	}
}

func TestStoreLimiter_BackendErrorPropagates(t *testing.T) {
	fake := storetest.NewFake()
	fake.GetErr = errors.New("store down")
	l := NewStoreLimiter(fake)

	// El limiter propaga el error; el fail-open lo decide el caller HTTP
	if _, err := l.Allow(context.Background(), devSchema, "k", 5, time.Minute); err == nil {
		t.Fatal("expected backend error to propagate")
	}
}
