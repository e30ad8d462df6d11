// Package fixture 提供 ICD201 课程的初始数据，用于数据库初始化和离线模式
package fixture

import "icd201_backend/internal/model"

func uintPtr(v uint) *uint { return &v }

// Units 返回课程单元（含课时）的新副本
func Units() []model.Unit {
	return []model.Unit{
		{
			ID:          1,
			Title:       "Fondements des technologies numériques",
			Duration:    25,
			Description: "Introduction aux concepts de base des technologies numériques et leur impact sur la société moderne",
			Objectives: []string{
				"Comprendre l'évolution des technologies numériques",
				"Identifier les composants matériels et logiciels",
				"Analyser l'impact social des innovations technologiques",
			},
			Lessons: []model.Lesson{
				{ID: 101, UnitID: 1, Title: "Histoire des technologies numériques", Duration: 3,
					Resources:  []string{"ordinateurs", "iPad"},
					Activities: []string{"Recherche collaborative", "Présentation multimédia"},
					Content:    "Explorer l'évolution des ordinateurs depuis les années 1940 jusqu'aux technologies actuelles"},
				{ID: 102, UnitID: 1, Title: "Architecture des systèmes informatiques", Duration: 4,
					Resources:  []string{"ordinateurs"},
					Activities: []string{"Démontage/remontage PC", "Diagrammes techniques"},
					Content:    "Comprendre les composants matériels : CPU, RAM, stockage, périphériques"},
				{ID: 103, UnitID: 1, Title: "Systèmes d'exploitation et logiciels", Duration: 3,
					Resources:  []string{"ordinateurs", "iPad"},
					Activities: []string{"Installation logiciels", "Comparaison OS"},
					Content:    "Analyser les différents systèmes d'exploitation et leur utilisation"},
			},
		},
		{
			ID:          2,
			Title:       "Innovation et conception numérique",
			Duration:    30,
			Description: "Développement de compétences en conception et innovation utilisant les outils numériques",
			Objectives: []string{
				"Maîtriser les outils de conception assistée par ordinateur",
				"Développer la pensée créative et innovante",
				"Créer des prototypes numériques et physiques",
			},
			Lessons: []model.Lesson{
				{ID: 201, UnitID: 2, Title: "Conception assistée par ordinateur (CAO)", Duration: 8,
					Resources:  []string{"ordinateurs", "imprimantes3D"},
					Activities: []string{"Modélisation 3D", "Création de prototypes"},
					Content:    "Utiliser des logiciels de CAO pour créer des modèles 3D complexes"},
				{ID: 202, UnitID: 2, Title: "Impression 3D et fabrication numérique", Duration: 10,
					Resources:  []string{"imprimantes3D", "ordinateurs"},
					Activities: []string{"Impression d'objets", "Post-traitement"},
					Content:    "Maîtriser le processus complet de l'impression 3D"},
				{ID: 203, UnitID: 2, Title: "Design thinking et innovation", Duration: 6,
					Resources:  []string{"iPad", "ordinateurs"},
					Activities: []string{"Brainstorming numérique", "Prototypage rapide"},
					Content:    "Appliquer la méthodologie du design thinking à des projets technologiques"},
			},
		},
		{
			ID:          3,
			Title:       "Médias numériques et communication",
			Duration:    30,
			Description: "Création et gestion de contenu multimédia à l'aide d'outils numériques avancés",
			Objectives: []string{
				"Créer du contenu multimédia de qualité professionnelle",
				"Comprendre les principes de communication numérique",
				"Maîtriser les outils d'édition audio et vidéo",
			},
			Lessons: []model.Lesson{
				{ID: 301, UnitID: 3, Title: "Production audio numérique", Duration: 8,
					Resources:  []string{"dispositifsAudioUSB", "ordinateurs"},
					Activities: []string{"Enregistrement podcast", "Montage audio"},
					Content:    "Techniques d'enregistrement et de post-production audio"},
				{ID: 302, UnitID: 3, Title: "Création vidéo et montage", Duration: 10,
					Resources:  []string{"ordinateurs", "iPad", "dispositifsAudioUSB"},
					Activities: []string{"Production vidéo", "Effets spéciaux"},
					Content:    "Réalisation complète de projets vidéo professionnels"},
				{ID: 303, UnitID: 3, Title: "Communication numérique et réseaux sociaux", Duration: 6,
					Resources:  []string{"iPad", "ordinateurs"},
					Activities: []string{"Campagne marketing", "Analyse d'audience"},
					Content:    "Stratégies de communication à l'ère numérique"},
			},
		},
		{
			ID:          4,
			Title:       "Projet intégrateur et évaluation",
			Duration:    25,
			Description: "Synthèse des apprentissages à travers un projet technologique complet",
			Objectives: []string{
				"Intégrer toutes les compétences acquises",
				"Gérer un projet technologique de A à Z",
				"Présenter et défendre son travail",
			},
			Lessons: []model.Lesson{
				{ID: 401, UnitID: 4, Title: "Planification et gestion de projet", Duration: 4,
					Resources:  []string{"ordinateurs", "iPad"},
					Activities: []string{"Cahier des charges", "Planning projet"},
					Content:    "Méthodologies de gestion de projet en technologie"},
				{ID: 402, UnitID: 4, Title: "Développement du projet final", Duration: 15,
					Resources:  []string{"ordinateurs", "iPad", "imprimantes3D", "dispositifsAudioUSB"},
					Activities: []string{"Développement", "Tests", "Itérations"},
					Content:    "Réalisation d'un projet technologique innovant"},
				{ID: 403, UnitID: 4, Title: "Présentation et évaluation", Duration: 6,
					Resources:  []string{"ordinateurs", "dispositifsAudioUSB"},
					Activities: []string{"Présentation orale", "Démonstration technique"},
					Content:    "Présentation professionnelle du projet réalisé"},
			},
		},
	}
}

func Resources() []model.Resource {
	return []model.Resource{
		{ID: "ordinateurs", Name: "Ordinateurs", Quantity: 30,
			Description: "Postes de travail informatique complets", Availability: "Disponible en permanence"},
		{ID: "iPad", Name: "iPad", Quantity: 15,
			Description: "Tablettes pour travail mobile et créatif", Availability: "Réservation requise"},
		{ID: "imprimantes3D", Name: "Imprimantes 3D", Quantity: 3,
			Description: "Imprimantes 3D pour prototypage", Availability: "Planning d'utilisation"},
		{ID: "dispositifsAudioUSB", Name: "Dispositifs Audio USB", Quantity: 10,
			Description: "Microphones et interfaces audio USB", Availability: "Disponible sur demande"},
	}
}

func Events() []model.CalendarEvent {
	return []model.CalendarEvent{
		{ID: 1, Title: "Introduction aux technologies numériques", UnitID: 1, LessonID: uintPtr(101),
			Date: "2025-01-15", Duration: 3, Resources: []string{"ordinateurs", "iPad"}},
		{ID: 2, Title: "Architecture des systèmes", UnitID: 1, LessonID: uintPtr(102),
			Date: "2025-01-22", Duration: 4, Resources: []string{"ordinateurs"}},
		{ID: 3, Title: "Conception 3D - Projet 1", UnitID: 2, LessonID: uintPtr(201),
			Date: "2025-02-12", Duration: 8, Resources: []string{"ordinateurs", "imprimantes3D"}},
	}
}

func Settings() model.CourseSettings {
	return model.DefaultCourseSettings()
}
