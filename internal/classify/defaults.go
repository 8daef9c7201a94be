// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "github.com/levmap/incident-engine/pkg/types"

// DefaultConfig returns the built-in bilingual keyword table covering the
// incident categories reported by Lebanese feeds. A YAML keywords file can
// replace it wholesale; there is no merging.
func DefaultConfig() Config {
	return Config{
		Incidents: map[types.IncidentType][]string{
			"fire": {
				"حريق", "احتراق", "نار", "اشتعال", "حرق", "الدفاع المدني", "إطفاء", "نيران",
				"fire", "burning", "flames", "blaze", "ignite", "combustion",
			},
			"accident": {
				"حادث", "حادثة", "اصطدام", "تصادم", "سقوط", "دهس",
				"accident", "crash", "collision", "wreck",
			},
			"shooting": {
				"إطلاق نار", "رصاص", "مسلح", "هجوم مسلح",
				"shooting", "gunfire", "shots", "armed",
			},
			"earthquake": {
				"زلزال", "هزة أرضية", "نشاط زلزالي",
				"earthquake", "seismic", "tremor", "quake",
			},
			"flood": {
				"فيضان", "سيول", "أمطار", "غرق",
				"flood", "flooding", "overflow", "deluge",
			},
			"explosion": {
				"انفجار", "تفجير", "عبوة ناسفة",
				"explosion", "detonation", "blast",
			},
			"protest": {
				"احتجاج", "تظاهرة", "مظاهرة",
				"protest", "demonstration", "riot",
			},
			"medical": {
				"إسعاف", "مستشفى", "طوارئ",
				"ambulance", "hospital", "emergency",
			},
		},
		Casualties: map[types.CasualtyTag][]string{
			types.CasualtyKilled: {
				"قتيل", "قتلى", "شهيد", "وفاة",
				"killed", "dead", "death",
			},
			types.CasualtyInjured: {
				"جريح", "جرحى", "مصاب", "إصابة",
				"injured", "wounded",
			},
			types.CasualtyMissing: {
				"مفقود", "اختفى",
				"missing",
			},
		},
	}
}
