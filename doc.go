// Package questvault is the composition root of questvault, the data toolkit of
// a career and skill tracker in which users complete quests to earn experience,
// skill hours and achievements.
//
// It connects the storage-agnostic core (documents, repositories, the field
// classifier and the field migration) with the storage adapters:
//
//   - fs: one Markdown, JSON or YAML file per document, optionally versioned with git.
//   - sqlite: one row per document in a single database file.
//
// Usage:
//
//	app, err := questvault.New(ctx, "./vault",
//		questvault.WithAutoInit(true),
//		questvault.WithLogger(logger),
//	)
//
//	// Suggest fields for free text
//	keys := app.Classifier.Classify("Registered Nurse", "Provide patient care in hospital")
//
//	// Move careers from the legacy "field" attribute to "fields"
//	report, err := app.Migrate(ctx, "careers")
package questvault
