package masking

import "strings"

const (
	maskToken  = "****"
	keepSuffix = 4
)

// MaskReference hides a payment processor reference in audit snapshots.
// A processor prefix such as "ch_" or "AUTH-" survives, as do the last
// four characters, so clerks can still match a statement line.
func MaskReference(value string) string {
	ref := strings.Join(strings.Fields(value), "")
	if ref == "" {
		return ""
	}

	prefix, body := processorPrefix(ref)
	if len(body) <= keepSuffix {
		return prefix + maskToken
	}
	return prefix + maskToken + body[len(body)-keepSuffix:]
}

// MaskReferencePtr applies MaskReference to an optional column value.
func MaskReferencePtr(value *string) *string {
	if value == nil {
		return nil
	}
	masked := MaskReference(*value)
	if masked == "" {
		return nil
	}
	return &masked
}

func processorPrefix(ref string) (string, string) {
	cut := strings.LastIndexAny(ref, "_-")
	if cut <= 0 || cut == len(ref)-1 {
		return "", ref
	}
	return ref[:cut+1], ref[cut+1:]
}
