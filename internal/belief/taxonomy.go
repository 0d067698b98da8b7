package belief

import "BiasFeed/internal/domain"

type issueSeed struct {
	id    string
	title string
}

type categorySeed struct {
	id     string
	issues []issueSeed
}

// taxonomy is the fixed category/issue layout every new profile starts from.
var taxonomy = []categorySeed{
	{id: "politics", issues: []issueSeed{
		{"government_size", "Size and role of government"},
		{"electoral_reform", "Electoral reform"},
		{"immigration", "Immigration levels"},
	}},
	{id: "economy", issues: []issueSeed{
		{"tariffs", "Tariffs and trade protection"},
		{"minimum_wage", "Raising the minimum wage"},
		{"taxation", "Taxes on high earners"},
	}},
	{id: "climate", issues: []issueSeed{
		{"carbon_tax", "Carbon pricing"},
		{"renewables", "Replacing fossil fuels with renewables"},
		{"nuclear_power", "Nuclear power expansion"},
	}},
	{id: "healthcare", issues: []issueSeed{
		{"universal_healthcare", "Universal healthcare"},
		{"drug_pricing", "Government drug price negotiation"},
	}},
	{id: "geopolitics", issues: []issueSeed{
		{"ukraine_support", "Military support for Ukraine"},
		{"nato_expansion", "NATO expansion"},
		{"china_relations", "Economic decoupling from China"},
	}},
	{id: "technology", issues: []issueSeed{
		{"ai_regulation", "Regulating artificial intelligence"},
		{"data_privacy", "Stronger data privacy laws"},
	}},
}

// KnownCategories lists taxonomy category ids in order.
func KnownCategories() []string {
	out := make([]string, len(taxonomy))
	for i, c := range taxonomy {
		out[i] = c.id
	}
	return out
}

func seedCategories() []domain.IssueCategory {
	out := make([]domain.IssueCategory, 0, len(taxonomy))
	for _, c := range taxonomy {
		issues := make([]domain.IssueView, 0, len(c.issues))
		for _, is := range c.issues {
			issues = append(issues, domain.IssueView{IssueID: is.id, CategoryID: c.id, Title: is.title})
		}
		out = append(out, domain.IssueCategory{
			ID:     c.id,
			Name:   domain.CategoryDisplayName(c.id),
			Issues: issues,
		})
	}
	return out
}

var templates = []domain.BeliefTemplate{
	{Category: "politics", Examples: []string{
		"Democracy is the best form of government",
		"Government should play a larger role in the economy",
		"Free markets are the best way to organize society",
		"Individual rights are more important than collective welfare",
		"Social programs are necessary for a just society",
	}},
	{Category: "climate", Examples: []string{
		"Climate change is primarily caused by human activities",
		"Renewable energy should replace fossil fuels",
		"Economic growth is more important than environmental protection",
		"Government regulation is necessary to address climate change",
		"Individual actions can significantly impact climate change",
	}},
	{Category: "healthcare", Examples: []string{
		"Universal healthcare would improve health outcomes",
		"Healthcare should be a right, not a privilege",
		"Private healthcare is more efficient than government-run systems",
		"Healthcare costs are too high in the current system",
		"Preventive care should be prioritized over treatment",
	}},
}

// Templates returns belief templates, all of them when no category is given.
// Unknown categories come back with no examples. The result is a copy.
func Templates(categories ...string) []domain.BeliefTemplate {
	if len(categories) == 0 {
		out := make([]domain.BeliefTemplate, len(templates))
		for i, t := range templates {
			out[i] = copyTemplate(t)
		}
		return out
	}

	out := make([]domain.BeliefTemplate, 0, len(categories))
	for _, cat := range categories {
		tpl := domain.BeliefTemplate{Category: cat, Examples: []string{}}
		for _, t := range templates {
			if t.Category == cat {
				tpl = copyTemplate(t)
				break
			}
		}
		out = append(out, tpl)
	}
	return out
}

func copyTemplate(t domain.BeliefTemplate) domain.BeliefTemplate {
	examples := make([]string, len(t.Examples))
	copy(examples, t.Examples)
	return domain.BeliefTemplate{Category: t.Category, Examples: examples}
}
