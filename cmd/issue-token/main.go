// Command issue-token mints a learner JWT for local development.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/service"
	"golang.org/x/term"
)

func main() {
	learnerID := flag.Int("learner", 0, "Learner (upstream user) id; prompted when omitted")
	ttl := flag.Duration("ttl", 0, "Token lifetime; defaults to JWT_EXPIRY_HOURS")
	promptSecret := flag.Bool("prompt-secret", false, "Read the signing secret from the terminal instead of JWT_SECRET")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	if *learnerID <= 0 {
		fmt.Fprint(os.Stderr, "Enter Learner ID: ")
		line, _ := reader.ReadString('\n')
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || id <= 0 {
			fmt.Fprintln(os.Stderr, "Error: learner id must be a positive integer")
			os.Exit(1)
		}
		*learnerID = id
	}

	if *promptSecret {
		fmt.Fprint(os.Stderr, "Enter JWT Secret: ")
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error reading secret")
			os.Exit(1)
		}
		if len(secret) == 0 {
			fmt.Fprintln(os.Stderr, "Error: secret is required")
			os.Exit(1)
		}
		cfg.JWTSecret = string(secret)
	}

	token, err := service.NewAuthService(cfg).GenerateLearnerToken(*learnerID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	expiry := *ttl
	if expiry <= 0 {
		expiry = cfg.JWTExpiry
	}
	fmt.Fprintf(os.Stderr, "Token for learner %d, valid until %s\n", *learnerID, time.Now().Add(expiry).Format(time.RFC3339))
	fmt.Println(token)
}
