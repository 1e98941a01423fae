// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IPs to 2-letter country codes using a
// MaxMind GeoLite2-Country database.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// privateCIDRs contains parsed CIDR blocks for private IP ranges.
var privateCIDRs []*net.IPNet

func init() {
	for _, block := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16", // IPv4 link-local
		"fc00::/7",  // IPv6 unique local
		"fe80::/10", // IPv6 link-local
	} {
		_, cidr, err := net.ParseCIDR(block)
		if err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Reader wraps a MaxMind database for country lookups. The zero path
// disables lookups; Country then always returns "".
type Reader struct {
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	mu        sync.RWMutex
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open loads the database at path. An empty path yields a disabled
// reader rather than an error so deployments without the database work.
func Open(path string) (*Reader, error) {
	r := &Reader{dbPath: path}
	if path == "" {
		return r, nil
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load opens or reloads the database file. Caller holds the write lock
// or has exclusive access.
func (r *Reader) load() error {
	info, err := os.Stat(r.dbPath)
	if err != nil {
		return fmt.Errorf("stat geoip database: %w", err)
	}

	// Skip reload if not modified
	if r.db != nil && info.ModTime().Equal(r.dbModTime) {
		return nil
	}

	if r.db != nil {
		_ = r.db.Close()
		r.db = nil
	}

	db, err := maxminddb.Open(r.dbPath)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}

	r.db = db
	r.dbModTime = info.ModTime()
	return nil
}

// Reload re-opens the database if the file changed on disk. Safe to
// call periodically from a scheduled job.
func (r *Reader) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dbPath == "" {
		return nil
	}
	return r.load()
}

// Country returns the 2-letter ISO country code for an IP address.
// Private and loopback addresses map to "LOCAL"; unknown or unparsable
// addresses, and a disabled reader, return "".
func (r *Reader) Country(ip string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return ""
	}

	if parsedIP.IsLoopback() || isPrivateIP(parsedIP) {
		return "LOCAL"
	}

	if r.db == nil {
		return ""
	}

	var record geoRecord
	if err := r.db.Lookup(parsedIP, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (r *Reader) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db != nil
}

// Close closes the underlying database.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		err := r.db.Close()
		r.db = nil
		return err
	}
	return nil
}

// isPrivateIP checks if an IP address is in a private range.
func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
