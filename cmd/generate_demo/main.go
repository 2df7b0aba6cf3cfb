// Command generate_demo creates a demo database with sample contacts,
// groups, activities and reminders.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/bondery/bondery/internal/database"
	"github.com/bondery/bondery/internal/database/activities"
	"github.com/bondery/bondery/internal/database/contacts"
	"github.com/bondery/bondery/internal/database/groups"
	"github.com/bondery/bondery/internal/database/reminders"
	"github.com/bondery/bondery/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

// demoUserID matches the default user injected when auth is disabled.
const demoUserID = uint(0)

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	contactRepo := contacts.NewRepository(db.DB)
	groupRepo := groups.NewRepository(db.DB)
	activityRepo := activities.NewRepository(db.DB)
	reminderRepo := reminders.NewRepository(db.DB)

	saved := createContacts(contactRepo)
	createGroups(groupRepo, saved)
	createActivities(activityRepo, saved)
	createReminders(reminderRepo, saved)

	log.Println("Demo database generated successfully!")
}

func createContacts(repo *contacts.Repository) map[string]*entities.Contact {
	birthday := func(year, month, day int) *time.Time {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return &t
	}
	connected := func(daysAgo int) *time.Time {
		t := time.Now().AddDate(0, 0, -daysAgo)
		return &t
	}

	demoContacts := []*entities.Contact{
		{
			UserID:           demoUserID,
			FirstName:        "Ada",
			LastName:         "Whitfield",
			Email:            "ada.whitfield@example.com",
			Phone:            "+44 20 7946 0101",
			Birthday:         birthday(1991, 3, 14),
			Company:          "Lumen Analytics",
			Position:         "Data Engineer",
			LinkedIn:         "https://www.linkedin.com/in/ada-whitfield",
			LinkedInUsername: "ada-whitfield",
			ImportedFrom:     entities.PlatformLinkedIn,
			ConnectedAt:      connected(420),
			Notes:            "Met at the Berlin data meetup. Loves hiking.",
		},
		{
			UserID:            demoUserID,
			FirstName:         "Marco",
			LastName:          "Silva",
			Nickname:          "Macs",
			Email:             "marco.silva@example.com",
			Birthday:          birthday(1988, 11, 2),
			Company:           "Porto Coffee Roasters",
			Position:          "Founder",
			Instagram:         "https://www.instagram.com/marco.roasts",
			InstagramUsername: "marco.roasts",
			ImportedFrom:      entities.PlatformInstagram,
			ConnectedAt:       connected(200),
		},
		{
			UserID:           demoUserID,
			FirstName:        "Yuki",
			LastName:         "Tanaka",
			Email:            "yuki.tanaka@example.com",
			Company:          "Kite Studio",
			Position:         "Product Designer",
			LinkedIn:         "https://www.linkedin.com/in/yukitanaka",
			LinkedInUsername: "yukitanaka",
			Website:          "https://yukitanaka.design",
			ImportedFrom:     entities.PlatformLinkedIn,
			ConnectedAt:      connected(90),
		},
		{
			UserID:    demoUserID,
			FirstName: "Priya",
			LastName:  "Raman",
			Phone:     "+1 415 555 0132",
			Birthday:  birthday(1994, 7, 23),
			Notes:     "College roommate. Moved to San Francisco in 2023.",
		},
		{
			UserID:            demoUserID,
			FirstName:         "Tom",
			MiddleName:        "H.",
			LastName:          "Berger",
			Email:             "tom.berger@example.com",
			Company:           "Freelance",
			Position:          "Photographer",
			Instagram:         "https://www.instagram.com/tomshoots",
			InstagramUsername: "tomshoots",
			ImportedFrom:      entities.PlatformInstagram,
			ConnectedAt:       connected(35),
		},
	}

	saved := make(map[string]*entities.Contact)
	for _, contact := range demoContacts {
		if err := repo.CreateContact(contact); err != nil {
			log.Printf("Failed to save contact %s: %v", contact.DisplayName(), err)
			continue
		}
		log.Printf("Saved contact: %s", contact.DisplayName())
		saved[contact.FirstName] = contact
	}
	return saved
}

func createGroups(repo *groups.Repository, saved map[string]*entities.Contact) {
	demoGroups := []struct {
		group   entities.Group
		members []string
	}{
		{
			group:   entities.Group{UserID: demoUserID, Name: "Close Friends", Color: "#E8590C", Description: "People I talk to every month"},
			members: []string{"Priya", "Marco"},
		},
		{
			group:   entities.Group{UserID: demoUserID, Name: "Work", Color: "#1971C2"},
			members: []string{"Ada", "Yuki"},
		},
		{
			group:   entities.Group{UserID: demoUserID, Name: "Photography", Color: "#2F9E44"},
			members: []string{"Tom"},
		},
	}

	for _, cfg := range demoGroups {
		group := cfg.group
		if err := repo.CreateGroup(&group); err != nil {
			log.Printf("Failed to create group %s: %v", group.Name, err)
			continue
		}
		for _, name := range cfg.members {
			contact, ok := saved[name]
			if !ok {
				continue
			}
			if err := repo.AddContactToGroup(group.ID, contact.ID, demoUserID); err != nil {
				log.Printf("Failed to add %s to group %s: %v", name, group.Name, err)
			}
		}
		log.Printf("Created group: %s (%d members)", group.Name, len(cfg.members))
	}
}

func createActivities(repo *activities.Repository, saved map[string]*entities.Contact) {
	now := time.Now()
	end := func(start time.Time, hours int) *time.Time {
		t := start.Add(time.Duration(hours) * time.Hour)
		return &t
	}

	coffee := now.AddDate(0, 0, 3).Truncate(time.Hour)
	dinner := now.AddDate(0, 0, -14).Truncate(time.Hour)

	demoActivities := []struct {
		activity     entities.Activity
		participants []string
	}{
		{
			activity: entities.Activity{
				UserID:   demoUserID,
				Title:    "Coffee with Marco",
				Location: "Porto Coffee Roasters",
				StartsAt: coffee,
				EndsAt:   end(coffee, 1),
			},
			participants: []string{"Marco"},
		},
		{
			activity: entities.Activity{
				UserID:      demoUserID,
				Title:       "Team dinner",
				Description: "Quarterly dinner with the analytics crew",
				StartsAt:    dinner,
				EndsAt:      end(dinner, 3),
			},
			participants: []string{"Ada", "Yuki"},
		},
	}

	for _, cfg := range demoActivities {
		activity := cfg.activity
		if err := repo.CreateActivity(&activity); err != nil {
			log.Printf("Failed to create activity %s: %v", activity.Title, err)
			continue
		}
		for _, name := range cfg.participants {
			contact, ok := saved[name]
			if !ok {
				continue
			}
			if err := repo.AddParticipant(activity.ID, contact.ID, demoUserID); err != nil {
				log.Printf("Failed to add %s to activity %s: %v", name, activity.Title, err)
			}
		}
		log.Printf("Created activity: %s", activity.Title)
	}
}

func createReminders(repo *reminders.Repository, saved map[string]*entities.Contact) {
	demoReminders := []struct {
		contactName string
		reminder    entities.Reminder
	}{
		{
			contactName: "Priya",
			reminder: entities.Reminder{
				UserID:     demoUserID,
				Title:      "Priya's birthday",
				DueAt:      nextBirthday(7, 23),
				Recurrence: entities.RecurrenceYearly,
				Enabled:    true,
			},
		},
		{
			contactName: "Marco",
			reminder: entities.Reminder{
				UserID:     demoUserID,
				Title:      "Check in with Marco",
				Message:    "Ask how the new roastery is going",
				DueAt:      time.Now().AddDate(0, 0, 7),
				Recurrence: entities.RecurrenceMonthly,
				Enabled:    true,
			},
		},
	}

	for _, cfg := range demoReminders {
		reminder := cfg.reminder
		if contact, ok := saved[cfg.contactName]; ok {
			reminder.ContactID = &contact.ID
		}
		if err := repo.CreateReminder(&reminder); err != nil {
			log.Printf("Failed to create reminder %s: %v", reminder.Title, err)
			continue
		}
		log.Printf("Created reminder: %s", reminder.Title)
	}
}

// nextBirthday returns the next occurrence of the given month and day.
func nextBirthday(month, day int) time.Time {
	now := time.Now()
	next := time.Date(now.Year(), time.Month(month), day, 9, 0, 0, 0, time.Local)
	if next.Before(now) {
		next = next.AddDate(1, 0, 0)
	}
	return next
}
