// Package importers implements the contact import pipeline shared by the
// LinkedIn and Instagram importers.
//
// The pipeline is split into three stages:
//
//  1. Extractor — platform packages (internal/linkedin, internal/instagram)
//     read an uploaded archive and yield RawConnectionRecords.
//  2. Preparer — converts raw records into PreparedContacts: splits names,
//     validates handles, checks against the user's existing contacts, and
//     classifies Instagram accounts as likely people or not.
//  3. Committer — writes a user-approved subset of PreparedContacts to the
//     contact store, reporting imported/updated/skipped counts.
//
// Nothing is persisted during extraction or preparation; the commit stage
// re-derives every trust-sensitive flag from current storage state.
package importers
