// Command inspect prints a stored conversation and the contact lists of its
// two users. The database is opened read-only, next to a running server.
package main

import (
	"chat-relay/repositories"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	userA := flag.String("a", "", "First user of the conversation")
	userB := flag.String("b", "", "Second user of the conversation")
	colours := flag.Bool("colours", true, "Colourize headers")
	flag.Parse()

	if *userA == "" || *userB == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	messages, err := readConversation(repositories.NewMessageRepository(db, slog.Default(), nil), *userA, *userB)
	if err != nil {
		log.Fatal(err)
	}
	header(fmt.Sprintf("Conversation %s <-> %s (%d messages)", *userA, *userB, len(messages)), *colours)
	table := newTable([]string{"At", "From", "To", "Text", "File", "Type", "ID"})
	for _, m := range messages {
		table.Append([]string{
			m.At.Format("2006-01-02 15:04:05.000"),
			m.SenderID,
			m.RecipientID,
			m.Text,
			m.File,
			m.FileType,
			m.ID.String()[:8],
		})
	}
	table.Render()

	contacts := repositories.NewContactRepository(db)
	for _, user := range []string{*userA, *userB} {
		listed, err := contacts.ListContacts(user)
		if err != nil {
			log.Fatal(err)
		}
		blocked, err := contacts.ListBlocked(user)
		if err != nil {
			log.Fatal(err)
		}
		header(fmt.Sprintf("Relations of %s", user), *colours)
		fmt.Printf("contacts: %s\nblocked:  %s\n", strings.Join(listed, ", "), strings.Join(blocked, ", "))
	}
}

// readConversation walks the pages from the newest back to the oldest.
func readConversation(repository repositories.IMessageRepository, userA, userB string) ([]repositories.DiskMessage, error) {
	var (
		all    []repositories.DiskMessage
		cursor *string
	)
	for {
		page, next, err := repository.GetConversation(userA, userB, cursor)
		if err != nil {
			return nil, err
		}
		all = append(page, all...)
		if next == nil {
			return all, nil
		}
		cursor = next
	}
}

func header(title string, colours bool) {
	title = fmt.Sprintf("  ====== %s ======", title)
	if colours {
		title = color.New(color.BgBlack, color.FgGreen).Render(title)
	}
	fmt.Println(title)
}

func newTable(columns []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
