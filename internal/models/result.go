package models

// ResultKind tags which variant of Result is populated
type ResultKind int

const (
	ResultNotFound ResultKind = iota
	ResultOfficial
	ResultCommunity
	ResultFailed
)

// String returns the string representation of ResultKind
func (k ResultKind) String() string {
	switch k {
	case ResultOfficial:
		return "official"
	case ResultCommunity:
		return "community"
	case ResultFailed:
		return "failed"
	default:
		return "not-found"
	}
}

// Result is the single outcome of resolving one query. Exactly one of
// Official, Community or Err is set, matching Kind; none is set for
// ResultNotFound.
type Result struct {
	Kind      ResultKind
	Official  *OfficialPackage
	Community *AURPackage
	Err       *LookupError
}

// OfficialResult wraps an official repository hit
func OfficialResult(pkg *OfficialPackage) Result {
	return Result{Kind: ResultOfficial, Official: pkg}
}

// CommunityResult wraps an AUR hit
func CommunityResult(pkg *AURPackage) Result {
	return Result{Kind: ResultCommunity, Community: pkg}
}

// NotFoundResult is the terminal miss on every source
func NotFoundResult() Result {
	return Result{Kind: ResultNotFound}
}

// FailedResult wraps a fatal lookup error
func FailedResult(err *LookupError) Result {
	return Result{Kind: ResultFailed, Err: err}
}
