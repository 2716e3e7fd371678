package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"tutorhub.backend/pkg/crypto"
)

// genhash prints a bcrypt hash for seeding password_hash columns by hand.
// The password is read from the first argument or, when absent, from stdin.
func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	cost := fs.Int("cost", crypto.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password := fs.Arg(0)
	if password == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password is required")
	}

	hasher, err := crypto.NewPasswordHasher(*cost)
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
