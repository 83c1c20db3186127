package domain

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const confirmationSuffixLength = 6

// NewConfirmationCode human-facing code RES-<unix ms>-<6 upper base36 chars>
func NewConfirmationCode(now time.Time) string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[:8])

	suffix := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(suffix) < confirmationSuffixLength {
		suffix = strings.Repeat("0", confirmationSuffixLength-len(suffix)) + suffix
	}

	return fmt.Sprintf("RES-%d-%s", now.UnixMilli(), suffix[:confirmationSuffixLength])
}
