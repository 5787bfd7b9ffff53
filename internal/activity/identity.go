package activity

import (
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"strings"
)

// LeadID derives the fallback content-hash identity for a candidate.
// Deterministic: the same logical record always re-derives the same id.
// Natural-key lookup in the store takes precedence over this hash, because a
// source may first report a contact with blank company/title and later
// re-report it with richer fields; hashing those fields would mint a second
// identity for the same entity.
func LeadID(c Candidate) string {
	key := strings.Join([]string{
		strings.ToLower(norm(c.Platform)),
		strings.ToLower(norm(c.LeadType)),
		NormalizeContact(c.Contact),
		norm(c.URL),
		strings.ToLower(norm(c.Company)),
		strings.ToLower(norm(c.JobTitle)),
	}, "|")
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// resolveExisting looks up a lead by its natural key
// (platform, lead_type, normalized contact). When several rows match, the most
// complete one wins: non-empty company first, then non-empty title, then the
// earliest created_at, so repeated runs converge on the same row.
func resolveExisting(tx *sql.Tx, platform, leadType, contact string) (string, bool, error) {
	row := tx.QueryRow(`
		SELECT lead_id
		FROM leads
		WHERE platform = ? AND lead_type = ? AND contact = ?
		ORDER BY (company != '') DESC, (job_title != '') DESC, created_at ASC
		LIMIT 1`,
		platform, leadType, contact,
	)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, id != "", nil
}
