// Package main generates a development CA and a server certificate signed by
// it, writing them under the output directory (default "certs"):
//
//	ca.crt, ca.key          pass ca.crt to the client with -ca
//	server.crt, server.key  pass to the server with -tls-cert / -tls-key
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinyakov/memorial/internal/certgen"
)

func main() {
	dir := flag.String("out", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := generate(*dir, splitHosts(*hosts)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Certificates generated into %s\n", *dir)
}

// generate writes a fresh CA and a server certificate for hosts into dir.
// Private keys are written with mode 0600.
func generate(dir string, hosts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	caPEM, caKeyPEM, err := certgen.GenerateCA()
	if err != nil {
		return err
	}
	caCert, caKey, err := certgen.ParseCA(caPEM, caKeyPEM)
	if err != nil {
		return err
	}
	serverPEM, serverKeyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey)
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
		mode os.FileMode
	}{
		{"ca.crt", caPEM, 0o644},
		{"ca.key", caKeyPEM, 0o600},
		{"server.crt", serverPEM, 0o644},
		{"server.key", serverKeyPEM, 0o600},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, f.mode); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}
