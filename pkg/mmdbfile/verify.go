package mmdbfile

import (
	"net/netip"

	maxminddb "github.com/oschwald/maxminddb-golang/v2"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// VerifyRoundTrip opens the just-written MMDB file at path with an
// independent reader and decodes the record for ip into want, so a
// completed build is checked against a reader this repository did not
// write, rather than against its own serializer's assumptions.
func VerifyRoundTrip(path string, ip netip.Addr, want any) error {
	db, err := maxminddb.Open(path)
	if err != nil {
		return ipErrors.Stage("verify", err)
	}
	defer db.Close()

	return db.Lookup(ip).Decode(want)
}

// VerifyNotFound opens path and confirms ip resolves to no record at all.
func VerifyNotFound(path string, ip netip.Addr) (bool, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return false, ipErrors.Stage("verify", err)
	}
	defer db.Close()

	result := db.Lookup(ip)
	if err := result.Err(); err != nil {
		return false, ipErrors.Stage("verify", err)
	}
	return !result.Found(), nil
}
