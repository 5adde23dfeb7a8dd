package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

func TestNewConnects(t *testing.T) {
	s := miniredis.RunT(t)

	opts := ConnectOptions{Addr: s.Addr()}
	opts.ApplyDefaults()

	client, err := New(context.Background(), opts, logger.New("error", false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	opts := ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  50 * time.Millisecond,
		MaxWait:        100 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
	}
	opts.ApplyDefaults()

	start := time.Now()
	if _, err := New(context.Background(), opts, logger.New("error", false)); err == nil {
		t.Fatal("New() against a closed port should fail")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("New() took %v, want it bounded by ConnectTimeout", elapsed)
	}
}

func TestValidateOptions(t *testing.T) {
	cl := &connectionLogger{logger: logger.New("error", false)}

	valid := ConnectOptions{}
	valid.ApplyDefaults()
	if err := cl.validateOptions(valid); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{"negative retry interval", func(o *ConnectOptions) { o.RetryInterval = -time.Second }},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			if err := cl.validateOptions(o); err == nil {
				t.Error("validateOptions() should fail")
			}
		})
	}
}
