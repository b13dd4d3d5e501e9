package config

// DefaultDatabasePath is the sqlite fallback used when DATABASE_URL is unset.
const DefaultDatabasePath = "./autolib.db"

// DefaultLoanTimezone is the IANA zone loan expiry instants are rendered in.
const DefaultLoanTimezone = "America/Toronto"
