package domain

// Bucket is the year/month partition a task is stored under.
type Bucket struct {
	Year  string
	Month string
}

// String formats the bucket as YYYY-MM.
func (b Bucket) String() string {
	return b.Year + "-" + b.Month
}

// IsZero reports whether the bucket is unset.
func (b Bucket) IsZero() bool {
	return b.Year == "" && b.Month == ""
}

// BucketOf returns the bucket a YYYY-MM-DD date belongs to.
func BucketOf(date string) Bucket {
	if len(date) < len(DateLayout) {
		return Bucket{}
	}
	return Bucket{Year: date[0:4], Month: date[5:7]}
}

// ParseBucket validates a year/month pair from storage keys or a query.
func ParseBucket(year, month any) (Bucket, bool) {
	m, ok := NormalizeMonth(month)
	if !ok || !IsValidYear(year) {
		return Bucket{}, false
	}
	return Bucket{Year: Text(year), Month: m}, true
}

// ResolveBucket picks the bucket for a task. An explicit year or month wins
// and must then be a valid pair. Otherwise the due date decides, then the
// fallback, then the current month.
func ResolveBucket(year, month, dueDate any, fallback *Bucket, today string) (Bucket, error) {
	if !isBlank(year) || !isBlank(month) {
		bucket, ok := ParseBucket(year, month)
		if !ok {
			return Bucket{}, NewValidationError("year", MsgInvalidBucket, ErrInvalidBucket)
		}
		return bucket, nil
	}

	if date, ok := NormalizeISODate(dueDate); ok {
		return BucketOf(date), nil
	}

	if fallback != nil && !fallback.IsZero() {
		return *fallback, nil
	}

	return BucketOf(today), nil
}
