package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"server/internal/catalog"
	"server/internal/vision"
)

// geminikey is a smoke check for a Gemini credential: it runs one validation
// call with a tiny probe image and reports whether the key is accepted.
func main() {
	var (
		keyFlag     string
		timeoutFlag time.Duration
	)
	flag.StringVar(&keyFlag, "key", "", "Gemini API key (falls back to GEMINI_API_KEY)")
	flag.DurationVar(&timeoutFlag, "timeout", 30*time.Second, "overall check timeout")
	flag.Parse()

	_ = godotenv.Load()

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Gemini API key is required via -key or GEMINI_API_KEY")
		os.Exit(1)
	}

	// Strict mode: a rejected key must surface as an error here, not be
	// absorbed by the serving path's fail-open validation policy.
	client, err := vision.NewClient(vision.Options{APIKey: key, StrictValidation: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	verdict, err := client.Validate(ctx, probeImage(), catalog.RolePerson, "1 person", "English")
	if err != nil {
		fmt.Fprintf(os.Stderr, "credential check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("credential accepted (probe verdict: isValid=%v)\n", verdict.IsValid)
}

// probeImage is a 1x1 white JPEG, enough to exercise the endpoint.
func probeImage() []byte {
	return []byte{
		0xff, 0xd8, 0xff, 0xdb, 0x00, 0x43, 0x00, 0x03, 0x02, 0x02,
		0x02, 0x02, 0x02, 0x03, 0x02, 0x02, 0x02, 0x03, 0x03, 0x03,
		0x03, 0x04, 0x06, 0x04, 0x04, 0x04, 0x04, 0x04, 0x08, 0x06,
		0x06, 0x05, 0x06, 0x09, 0x08, 0x0a, 0x0a, 0x09, 0x08, 0x09,
		0x09, 0x0a, 0x0c, 0x0f, 0x0c, 0x0a, 0x0b, 0x0e, 0x0b, 0x09,
		0x09, 0x0d, 0x11, 0x0d, 0x0e, 0x0f, 0x10, 0x10, 0x11, 0x10,
		0x0a, 0x0c, 0x12, 0x13, 0x12, 0x10, 0x13, 0x0f, 0x10, 0x10,
		0x10, 0xff, 0xc9, 0x00, 0x0b, 0x08, 0x00, 0x01, 0x00, 0x01,
		0x01, 0x01, 0x11, 0x00, 0xff, 0xcc, 0x00, 0x06, 0x00, 0x10,
		0x10, 0x05, 0xff, 0xda, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00,
		0x3f, 0x00, 0xd2, 0xcf, 0x20, 0xff, 0xd9,
	}
}
