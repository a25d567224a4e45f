// Package db provides the embedded database schema and seed reference data.
package db

import _ "embed"

// Schema contains the DDL statements for the session state table.
//
//go:embed migrations/001_schema.sql
var Schema string

// Products is the embedded product catalog seed, a JSON array.
//
//go:embed products.json
var Products []byte

// Promos is the embedded promo rule table seed, a JSON array.
//
//go:embed promos.json
var Promos []byte
