package importer

import "github.com/fr4nk3nst1ner/jobdesk/internal/models"

// SamplePostings are the demonstration postings created by the seed command
func SamplePostings() []models.JobInput {
	return []models.JobInput{
		{
			Title:           "Senior Actuarial Analyst",
			Company:         "MetLife",
			Location:        "New York, NY",
			Description:     "We are seeking a Senior Actuarial Analyst to join our team. The ideal candidate will have strong analytical skills and experience in life insurance pricing.",
			JobType:         models.JobTypeFullTime,
			SalaryRange:     "$80,000 - $120,000",
			ExperienceLevel: models.ExperienceSenior,
			Tags:            models.Tags{"Life", "Pricing", "Analysis"},
		},
		{
			Title:           "Actuarial Intern",
			Company:         "Prudential",
			Location:        "Newark, NJ",
			Description:     "Summer internship opportunity for actuarial students. Gain hands-on experience in insurance mathematics and risk assessment.",
			JobType:         models.JobTypeInternship,
			SalaryRange:     "$25 - $30 per hour",
			ExperienceLevel: models.ExperienceEntry,
			Tags:            models.Tags{"Internship", "Life", "Health"},
		},
		{
			Title:           "Pricing Actuary",
			Company:         "AIG",
			Location:        "Houston, TX",
			Description:     "Join our pricing team to develop and maintain pricing models for property and casualty insurance products.",
			JobType:         models.JobTypeFullTime,
			SalaryRange:     "$90,000 - $130,000",
			ExperienceLevel: models.ExperienceMid,
			Tags:            models.Tags{"Pricing", "P&C", "Modeling"},
		},
		{
			Title:           "Actuarial Consultant",
			Company:         "Deloitte",
			Location:        "Chicago, IL",
			Description:     "Provide actuarial consulting services to clients in the insurance and financial services industries.",
			JobType:         models.JobTypeFullTime,
			SalaryRange:     "$100,000 - $150,000",
			ExperienceLevel: models.ExperienceSenior,
			Tags:            models.Tags{"Consulting", "Life", "Health", "P&C"},
		},
		{
			Title:           "Reserving Actuary",
			Company:         "Travelers",
			Location:        "Hartford, CT",
			Description:     "Responsible for estimating insurance reserves and providing actuarial support for financial reporting.",
			JobType:         models.JobTypeFullTime,
			SalaryRange:     "$85,000 - $125,000",
			ExperienceLevel: models.ExperienceMid,
			Tags:            models.Tags{"Reserving", "Financial Reporting", "P&C"},
		},
	}
}
