package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bondery/bondery/internal/config"
	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/exporters"
)

// exportPageSize keeps memory flat when dumping large contact books.
const exportPageSize = 500

// VCardExportCommand dumps the contact database to a vCard 3.0 file.
type VCardExportCommand struct {
	OutputPath   string
	DatabasePath string
	UserID       uint
	Verbose      bool
}

func NewVCardExportCommand() *VCardExportCommand {
	return &VCardExportCommand{}
}

func (cmd *VCardExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("vcard-export", flag.ExitOnError)

	var userID uint64
	fs.StringVar(&cmd.OutputPath, "output", "contacts.vcf", "Path of the vCard file to write")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.Uint64Var(&userID, "user", 0, "ID of the user whose contacts to export (0 when authentication is disabled)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s vcard-export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export all contacts to a vCard 3.0 (.vcf) file that address book\n")
		fmt.Fprintf(os.Stderr, "applications can import.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s vcard-export -output ~/backups/contacts.vcf\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.UserID = uint(userID)

	return nil
}

func (cmd *VCardExportCommand) Run() error {
	fmt.Println("vCard Export")
	fmt.Println("============")

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	out, err := os.Create(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	contactRepo := contacts.NewRepository(db.DB)
	exporter := exporters.NewVCardExporter()

	exported := 0
	for offset := 0; ; offset += exportPageSize {
		page, total, err := contactRepo.ListContacts(cmd.UserID, exportPageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list contacts: %w", err)
		}
		if len(page) == 0 {
			if exported == 0 {
				fmt.Println("No contacts to export")
				return nil
			}
			break
		}

		result, err := exporter.Export(out, page)
		if err != nil {
			return fmt.Errorf("failed to write vCards: %w", err)
		}
		exported += result.ContactsProcessed

		if cmd.Verbose {
			fmt.Printf("  -> wrote %d/%d contacts\n", exported, total)
		}

		if int64(offset+len(page)) >= total {
			break
		}
	}

	fmt.Printf("\nExported %d contacts to %s\n", exported, cmd.OutputPath)
	return nil
}
