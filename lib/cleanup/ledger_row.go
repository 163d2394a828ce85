package cleanup

import (
	"auth0cleanup/lib/constants"
	"auth0cleanup/lib/models"
	"auth0cleanup/lib/util"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// BuildLedgerRow renders one deleted account as a newline-terminated CSV record
// in CSV_HEADER column order.
func BuildLedgerRow(ssoid string, account *models.Account, deletedAt time.Time, actor string) string {
	return util.FormatCSVLine([]string{
		ssoid,
		constants.DEACTIVATION_FLAG,
		deletedAt.UTC().Format(timestampLayout),
		account.UserID,
		util.OptionalString(account.Email),
		util.OptionalString(account.DisplayName()),
		strings.Join(account.Providers(), ";"),
		strings.Join(account.Connections(), ";"),
		util.OptionalString(account.CreatedAt),
		util.OptionalString(account.LastLogin),
		util.FormatCSVNumber(account.LoginsCount),
		actor,
	})
}
