// Package timezone keeps every timestamp the service produces in the
// application timezone configured by APP_TIMEZONE (an IANA name such as
// "UTC" or "Asia/Kolkata"). Unknown names fall back to UTC.
//
//	now := timezone.Now()
//	day, err := timezone.ParseAny("2025-06-01", constant.DateOnlyFormat, constant.DateFormat)
package timezone
