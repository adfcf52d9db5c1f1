package domain

// DefaultQuestions returns the seed set written on first run.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:   1,
			Text: "When should hardware failures be logged for repair?",
			Answers: []string{
				"Only during business hours",
				"Immediately upon discovery",
				"Within 24 hours",
				"At the end of the week",
			},
			Correct:  1,
			Category: "Site Repairs",
		},
		{
			ID:   2,
			Text: "Who creates the repair ticket and assigns it to the site DSM?",
			Answers: []string{
				"DCO team",
				"DCEO team",
				"CGF supervisor",
				"Security Integrator",
			},
			Correct:  2,
			Category: "Site Repairs",
		},
		{
			ID:   3,
			Text: "What type of issues should be directed to DCO via SIM ticket?",
			Answers: []string{
				"Door Hardware issues",
				"Security Hardware issues",
				"Network Video Recorder (NVR) issues",
				"Card reader issues",
			},
			Correct:  2,
			Category: "Site Repairs",
		},
		{
			ID:   4,
			Text: "What should you look for when reviewing CGF activity on CCTV?",
			Answers: []string{
				"Guards remain awake and vigilant",
				"Camera functionality",
				"Discrepancies in specific areas",
				"All of the above",
			},
			Correct:  3,
			Category: "CGF Management",
		},
		{
			ID:   5,
			Text: "How often should DSMs meet with CGF Account Manager/Supervisor?",
			Answers: []string{
				"Monthly only",
				"Quarterly",
				"Regularly in both formal and informal meetings",
				"Only when issues arise",
			},
			Correct:  2,
			Category: "CGF Management",
		},
		{
			ID:   6,
			Text: "What does CICO stand for?",
			Answers: []string{
				"Check In Check Out",
				"Clean In Clean Out",
				"Control In Control Out",
				"Carry In Carry Out",
			},
			Correct:  1,
			Category: "Red Zone Security",
		},
		{
			ID:   7,
			Text: "What is required for equipment to enter the Red Zone?",
			Answers: []string{
				"Manager approval only",
				"Tool Identification Number (TIN)",
				"Security badge",
				"Written permission",
			},
			Correct:  1,
			Category: "Red Zone Security",
		},
		{
			ID:   8,
			Text: "How long must CCTV footage be retained before deletion from tickets?",
			Answers: []string{
				"24 hours",
				"48 hours",
				"72 hours",
				"1 week",
			},
			Correct:  2,
			Category: "CGF Management",
		},
		{
			ID:   9,
			Text: "What severity level should be assigned to a forced door alarm that cannot be cleared remotely?",
			Answers: []string{
				"Severity 1",
				"Severity 2",
				"Severity 3",
				"Severity 5",
			},
			Correct:  1,
			Category: "Incident Response",
		},
		{
			ID:   10,
			Text: "Who must be notified first when a security incident is confirmed on site?",
			Answers: []string{
				"The CGF Account Manager",
				"The on-call DSM",
				"Facilities",
				"The site lead the next morning",
			},
			Correct:  1,
			Category: "Incident Response",
		},
	}
}
