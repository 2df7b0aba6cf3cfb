package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bondery/bondery/internal/config"
	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/imports"
	"github.com/bondery/bondery/internal/entities"
	"github.com/bondery/bondery/internal/importers"
	"github.com/bondery/bondery/internal/linkedin"
)

// maxCLIUploadBytes caps archives read from disk. More generous than the
// HTTP ceiling since nothing is held in a request body.
const maxCLIUploadBytes = 256 << 20

// LinkedInImportCommand imports a LinkedIn connections export from disk
// without going through the review step: every valid entry is committed.
type LinkedInImportCommand struct {
	ArchivePath  string
	DatabasePath string
	UserID       uint
	Verbose      bool
	DryRun       bool
}

func NewLinkedInImportCommand() *LinkedInImportCommand {
	return &LinkedInImportCommand{}
}

func (cmd *LinkedInImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("linkedin-import", flag.ExitOnError)

	var userID uint64
	fs.StringVar(&cmd.ArchivePath, "file", "", "Path to the LinkedIn data export (.zip archive or Connections.csv) (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.Uint64Var(&userID, "user", 0, "ID of the user the contacts belong to (0 when authentication is disabled)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s linkedin-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import connections from a LinkedIn data export into the contact database.\n\n")
		fmt.Fprintf(os.Stderr, "Unlike the HTTP import, which lets you review candidates first, this\n")
		fmt.Fprintf(os.Stderr, "command commits every valid connection directly. Connections already in\n")
		fmt.Fprintf(os.Stderr, "the database are updated in place, not duplicated.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import the full export archive:\n")
		fmt.Fprintf(os.Stderr, "  %s linkedin-import -file ~/Downloads/Basic_LinkedInDataExport.zip\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s linkedin-import -file Connections.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ArchivePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	cmd.UserID = uint(userID)

	return nil
}

func (cmd *LinkedInImportCommand) Run() error {
	fmt.Println("LinkedIn Import")
	fmt.Println("===============")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	data, err := os.ReadFile(cmd.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}

	fmt.Printf("File: %s\n", cmd.ArchivePath)

	reader := linkedin.NewReader(maxCLIUploadBytes)
	records, err := reader.Extract([]importers.UploadedFile{
		{Name: filepath.Base(cmd.ArchivePath), Data: data},
	})
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No connections found in export")
		return nil
	}

	// Open the database early so existing handles feed the preparer
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	var existing map[string]uint
	var contactRepo *contacts.Repository
	var db *database.Database
	if !cmd.DryRun {
		db, err = database.NewDatabase(absDBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		contactRepo = contacts.NewRepository(db.DB)
		existing, err = contactRepo.GetHandles(cmd.UserID, entities.PlatformLinkedIn)
		if err != nil {
			return fmt.Errorf("failed to load existing handles: %w", err)
		}
	}

	preparer := importers.NewPreparer()
	result := preparer.Prepare(records, existing)

	fmt.Printf("Found %d connections (%d valid, %d invalid)\n",
		result.TotalCount, result.ValidCount, result.InvalidCount)

	if cmd.Verbose {
		fmt.Println("\n=== Connections Found ===")
		for i, entry := range result.Contacts {
			status := "new"
			if entry.AlreadyExists {
				status = "existing"
			}
			if !entry.IsValid {
				status = "invalid"
			}
			fmt.Printf("%d. %s %s (@%s) [%s]\n",
				i+1, entry.FirstName, entry.LastName, entry.Username, status)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	// Commit every valid entry, including ones already stored (updates)
	selected := make([]importers.PreparedContact, 0, result.ValidCount)
	for _, entry := range result.Contacts {
		if entry.IsValid {
			selected = append(selected, entry)
		}
	}

	fmt.Printf("\nSaving to database: %s\n", absDBPath)

	startedAt := time.Now()
	committer := importers.NewCommitter(contactRepo)
	commitResult, err := committer.Commit(cmd.UserID, entities.PlatformLinkedIn, selected)
	if err != nil {
		return fmt.Errorf("failed to commit contacts: %w", err)
	}

	if err := importers.RecordSession(imports.NewRepository(db.DB), cmd.UserID, entities.PlatformLinkedIn, startedAt, commitResult); err != nil {
		fmt.Printf("[WARN] Failed to record import session: %v\n", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Imported: %d\n", commitResult.ImportedCount)
	fmt.Printf("Updated:  %d\n", commitResult.UpdatedCount)
	fmt.Printf("Skipped:  %d\n", commitResult.SkippedCount)

	fmt.Println("\nImport complete!")
	return nil
}
