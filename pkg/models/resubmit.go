package models

// ResubmitCode is the outcome of a resubmission. Values follow the errno numbers reported
// to older clients.
type ResubmitCode int

const (
	ResubmitOK            ResubmitCode = 0
	ResubmitNotAuthorized ResubmitCode = 1   // EPERM
	ResubmitNotFound      ResubmitCode = 2   // ENOENT
	ResubmitOutputCleanup ResubmitCode = 5   // EIO
	ResubmitUnavailable   ResubmitCode = 11  // EAGAIN
	ResubmitBadState      ResubmitCode = 77  // EBADFD
	ResubmitSpecReload    ResubmitCode = 84  // EILSEQ
	ResubmitQuota         ResubmitCode = 122 // EDQUOT
	ResubmitTokenCleanup  ResubmitCode = 126 // ENOKEY
)

func (c ResubmitCode) String() string {
	switch c {
	case ResubmitOK:
		return "OK"
	case ResubmitNotAuthorized:
		return "EPERM"
	case ResubmitNotFound:
		return "ENOENT"
	case ResubmitOutputCleanup:
		return "EIO"
	case ResubmitUnavailable:
		return "EAGAIN"
	case ResubmitBadState:
		return "EBADFD"
	case ResubmitSpecReload:
		return "EILSEQ"
	case ResubmitQuota:
		return "EDQUOT"
	case ResubmitTokenCleanup:
		return "ENOKEY"
	default:
		return "UNKNOWN"
	}
}

// ResubmitResult pairs the code with a human readable message.
type ResubmitResult struct {
	Code    ResubmitCode `json:"Code"`
	Message string       `json:"Message"`
}

func (r ResubmitResult) OK() bool {
	return r.Code == ResubmitOK
}
