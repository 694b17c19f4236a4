package show

import "time"

// DemoShows is the built-in fixture set used when every data source is
// unavailable. It keeps the client fully navigable offline, transcripts
// included, so the list is never empty.
func DemoShows() []Show {
	now := time.Now()
	return []Show{
		{
			ID:             "demo-1",
			Title:          "Demo Show - Zürich Morning News",
			CreatedAt:      now,
			Channel:        "zurich",
			Language:       "de",
			NewsCount:      3,
			BroadcastStyle: "Morning Energy",
			ScriptPreview:  "Guten Morgen Zürich! Dies ist eine Demo-Show die zeigt wie das System auch offline funktioniert. Mit lokalen News und Wetterinfos...",
			AudioURL:       "https://www.soundjay.com/misc/bell-ringing-05.wav",

			AudioDurationSeconds:     180,
			EstimatedDurationMinutes: 3,
			Segments: []Segment{
				{
					ID:       "demo-1-intro",
					Title:    "Intro",
					Category: "intro",
					Duration: 20,
					Transcript: []TranscriptLine{
						{Speaker: "Marcel", Text: "Guten Morgen Zürich, hier ist euer Morgen-Update.", Timestamp: 0},
						{Speaker: "Marcel", Text: "Wir starten mit den wichtigsten News des Tages.", Timestamp: 8},
					},
				},
				{
					ID:       "demo-1-news",
					Title:    "Lokale News",
					Category: "news",
					Duration: 120,
					Transcript: []TranscriptLine{
						{Speaker: "Marcel", Text: "Die Stadt Zürich testet neue Velowege entlang der Limmat.", Timestamp: 0},
						{Speaker: "Jarvis", Text: "Und das Wetter bleibt heute freundlich bei 22 Grad.", Timestamp: 15},
					},
				},
				{
					ID:       "demo-1-outro",
					Title:    "Outro",
					Category: "outro",
					Duration: 40,
				},
			},
		},
		{
			ID:             "demo-2",
			Title:          "Demo Show - Zürich Midday Update",
			CreatedAt:      now.Add(-1 * time.Hour),
			Channel:        "zurich",
			Language:       "de",
			NewsCount:      2,
			BroadcastStyle: "Informative Midday",
			ScriptPreview:  "Mittagsupdate für Zürich - auch wenn das Backend offline ist, bleibt das Frontend funktional und benutzerfreundlich...",
			AudioURL:       "https://www.soundjay.com/misc/bell-ringing-05.wav",

			AudioDurationSeconds:     120,
			EstimatedDurationMinutes: 2,
		},
		{
			ID:             "demo-3",
			Title:          "Demo Show - Zürich Evening Wrap",
			CreatedAt:      now.Add(-2 * time.Hour),
			Channel:        "zurich",
			Language:       "de",
			NewsCount:      4,
			BroadcastStyle: "Evening Summary",
			ScriptPreview:  "Abendliche Zusammenfassung für Zürich - das Frontend zeigt immer Inhalte, egal ob Backend verfügbar ist oder nicht...",
			AudioURL:       "https://www.soundjay.com/misc/bell-ringing-05.wav",

			AudioDurationSeconds:     240,
			EstimatedDurationMinutes: 4,
		},
	}
}

// MockPresets is the preset list used when datastore credentials are
// absent. Generation still works against the backend with these names.
func MockPresets() []Preset {
	return []Preset{
		{
			ID:             "mock-zurich",
			PresetName:     "zurich",
			DisplayName:    "Zürich Lokal",
			Description:    "Lokale News und Wetter für Zürich",
			CityFocus:      "zurich",
			PrimarySpeaker: "marcel",
			WeatherSpeaker: "lucy",
			Active:         true,
		},
		{
			ID:               "mock-global",
			PresetName:       "global",
			DisplayName:      "Global News",
			Description:      "Internationale Nachrichten im Überblick",
			CityFocus:        "global",
			PrimarySpeaker:   "marcel",
			SecondarySpeaker: "jarvis",
			Active:           true,
		},
	}
}
