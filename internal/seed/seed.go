// Package seed holds the demo dataset used by the seed command and by the
// in-memory dev server.
package seed

import "learnquest-service/internal/domain"

type QuizSet struct {
	Quiz      domain.Quiz
	Questions []domain.Question
}

type VideoSet struct {
	Video       domain.Video
	Checkpoints []domain.Checkpoint
}

type Data struct {
	Quizzes []QuizSet
	Rewards []domain.Reward
	Videos  []VideoSet
}

// Demo returns the sample content: a medical terminology quiz, the campus
// reward catalog and three interactive arithmetic videos.
func Demo() Data {
	return Data{
		Quizzes: []QuizSet{
			{
				Quiz: domain.Quiz{
					Title:         "Medical Terminology Basics",
					Description:   "Medical terminology and procedures quiz",
					Category:      "medical",
					CreditsReward: 100,
				},
				Questions: []domain.Question{
					{
						Prompt:        "Which of the following is the term for surgical complications resulting from surgical sponges left inside the patient's body?",
						OptionA:       "Gauze grievance disorder",
						OptionB:       "Retained surgical sponge syndrome",
						OptionC:       "Wound-induced hepatoma",
						OptionD:       "Fabric foreign object syndrome",
						CorrectOption: domain.OptionB,
						Difficulty:    domain.DifficultyHard,
						Category:      "surgery",
					},
					{
						Prompt:        "What is the medical term for inflammation of the heart muscle?",
						OptionA:       "Myocarditis",
						OptionB:       "Pericarditis",
						OptionC:       "Endocarditis",
						OptionD:       "Cardiomyopathy",
						CorrectOption: domain.OptionA,
						Difficulty:    domain.DifficultyMedium,
						Category:      "cardiology",
					},
					{
						Prompt:        "Which abbreviation refers to a test that records the electrical activity of the heart?",
						OptionA:       "EEG",
						OptionB:       "EMG",
						OptionC:       "ECG",
						OptionD:       "CT",
						CorrectOption: domain.OptionC,
						Difficulty:    domain.DifficultyEasy,
						Category:      "cardiology",
					},
					{
						Prompt:        "The prefix 'hyper-' means:",
						OptionA:       "Below normal",
						OptionB:       "Above normal",
						OptionC:       "Within normal",
						OptionD:       "Absence of",
						CorrectOption: domain.OptionB,
						Difficulty:    domain.DifficultyEasy,
						Category:      "terminology",
					},
					{
						Prompt:        "Which term describes low blood sugar?",
						OptionA:       "Hyperglycemia",
						OptionB:       "Hypoglycemia",
						OptionC:       "Glycosuria",
						OptionD:       "Hyperlipidemia",
						CorrectOption: domain.OptionB,
						Difficulty:    domain.DifficultyEasy,
						Category:      "terminology",
					},
				},
			},
			{
				Quiz: domain.Quiz{
					Title:         "Pharmacology Fundamentals",
					Description:   "Drug classes, routes and safety basics",
					Category:      "medical",
					CreditsReward: 50,
				},
				Questions: []domain.Question{
					{
						Prompt:        "Which route of administration has the fastest onset of action?",
						OptionA:       "Oral",
						OptionB:       "Intramuscular",
						OptionC:       "Intravenous",
						OptionD:       "Subcutaneous",
						CorrectOption: domain.OptionC,
						Difficulty:    domain.DifficultyEasy,
						Category:      "pharmacology",
					},
					{
						Prompt:        "Beta blockers primarily affect which body system?",
						OptionA:       "Cardiovascular",
						OptionB:       "Digestive",
						OptionC:       "Respiratory",
						OptionD:       "Nervous",
						CorrectOption: domain.OptionA,
						Difficulty:    domain.DifficultyMedium,
						Category:      "pharmacology",
					},
					{
						Prompt:        "What does the abbreviation 'PRN' mean on a prescription?",
						OptionA:       "Before meals",
						OptionB:       "As needed",
						OptionC:       "At bedtime",
						OptionD:       "Twice daily",
						CorrectOption: domain.OptionB,
						Difficulty:    domain.DifficultyEasy,
						Category:      "pharmacology",
					},
				},
			},
		},
		Rewards: []domain.Reward{
			{
				Name:        "Free Parking Pass (1 Day)",
				Description: "Redeem for one day of free parking on campus. Valid for any parking lot.",
				Category:    "parking",
				CreditCost:  50,
				Icon:        "Car",
				Active:      true,
			},
			{
				Name:        "Free Parking Pass (1 Week)",
				Description: "Enjoy a full week of free parking on campus. Perfect for busy weeks!",
				Category:    "parking",
				CreditCost:  300,
				Icon:        "Car",
				Active:      true,
			},
			{
				Name:        "Preferred Exam Seating",
				Description: "Choose your preferred seat for the next exam. First come, first served!",
				Category:    "exam_seating",
				CreditCost:  100,
				Icon:        "Armchair",
				Active:      true,
			},
			{
				Name:        "Front Row Exam Seat",
				Description: "Guarantee a front row seat for your next exam with optimal visibility.",
				Category:    "exam_seating",
				CreditCost:  150,
				Icon:        "Armchair",
				Active:      true,
			},
			{
				Name:        "Campus Coffee Voucher",
				Description: "A free coffee at the campus cafe.",
				Category:    "voucher",
				CreditCost:  30,
				Icon:        "Coffee",
				Active:      true,
			},
		},
		Videos: []VideoSet{
			arithmeticVideo("Basic Addition", "Practice simple addition problems in 60 seconds.", domain.VideoBeginner,
				[3]checkpointSpec{
					{20, "What is 7 + 5?", "10", "11", "12", "13", domain.OptionC},
					{40, "What is 14 + 9?", "21", "22", "23", "24", domain.OptionC},
					{60, "What is 38 + 17?", "54", "55", "56", "57", domain.OptionB},
				}),
			arithmeticVideo("Basic Subtraction", "Practice simple subtraction problems in 60 seconds.", domain.VideoBeginner,
				[3]checkpointSpec{
					{20, "What is 12 - 5?", "6", "7", "8", "9", domain.OptionB},
					{40, "What is 23 - 9?", "13", "14", "15", "16", domain.OptionB},
					{60, "What is 51 - 27?", "23", "24", "25", "26", domain.OptionB},
				}),
			arithmeticVideo("Basic Multiplication", "Practice simple multiplication problems in 60 seconds.", domain.VideoIntermediate,
				[3]checkpointSpec{
					{20, "What is 6 x 7?", "40", "42", "44", "48", domain.OptionB},
					{40, "What is 8 x 9?", "71", "72", "73", "74", domain.OptionB},
					{60, "What is 12 x 12?", "124", "134", "144", "154", domain.OptionC},
				}),
		},
	}
}

type checkpointSpec struct {
	pauseAt int
	prompt  string
	a, b    string
	c, d    string
	correct domain.OptionLetter
}

func arithmeticVideo(title, description string, difficulty domain.VideoDifficulty, specs [3]checkpointSpec) VideoSet {
	checkpoints := make([]domain.Checkpoint, 0, len(specs))
	for _, spec := range specs {
		checkpoints = append(checkpoints, domain.Checkpoint{
			PauseAt:           spec.pauseAt,
			Prompt:            spec.prompt,
			OptionA:           spec.a,
			OptionB:           spec.b,
			OptionC:           spec.c,
			OptionD:           spec.d,
			CorrectOption:     spec.correct,
			CorrectFeedback:   "Correct! Nice work.",
			IncorrectFeedback: "Not quite. Try again!",
			Hint:              "Work through it step by step.",
		})
	}
	return VideoSet{
		Video: domain.Video{
			Title:       title,
			Description: description,
			VideoURL:    "gradient-animation",
			Duration:    60,
			Category:    "Mathematics",
			Difficulty:  difficulty,
			Active:      true,
		},
		Checkpoints: checkpoints,
	}
}
