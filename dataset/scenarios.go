package dataset

import (
	"fmt"
	"strings"

	"github.com/triagemesh/triagemesh/internal/util"
)

// Scenario is one synthetic presentation with its expected triage outcome.
type Scenario struct {
	ChiefComplaint   string
	Symptoms         []string
	Vitals           []Vital
	PainLevel        string
	Onset            string
	CTAS             int
	ExpectedActions  []string
	ExpectedWaitTime string
}

// Vital is a single labelled vital sign reading. An ordered slice instead of
// a map keeps rendered prompts byte-stable across runs.
type Vital struct {
	Name  string
	Value string
}

// Patient names drawn from the synthetic FHIR dataset behind the search index.
var patientNames = []string{
	"Aaron697 Stanton715",
	"Abdul218 Gusikowski974",
	"Abel832 Keebler762",
	"Abram53 Kihn564",
	"Ada662 Nader710",
	"Adalberto916 Feil794",
	"Adan632 Bode78",
	"Adelaide981 Tremblay80",
	"Adelina682 Cruickshank494",
	"Adella39 Morar593",
}

func allScenarios() []Scenario {
	return []Scenario{
		// CTAS 1 – resuscitation
		{
			ChiefComplaint: "Cardiac arrest - patient found unconscious, no pulse",
			Symptoms: []string{
				"Unconscious", "No pulse palpable", "Not breathing", "Cyanotic", "CPR in progress",
			},
			Vitals: []Vital{
				{"pulse", "0"}, {"bp", "Not obtainable"}, {"respiratory_rate", "0"},
				{"temperature", "Unknown"}, {"oxygen_saturation", "Undetectable"},
			},
			PainLevel:        "Unable to assess",
			Onset:            "Found down 5 minutes ago",
			CTAS:             1,
			ExpectedActions:  []string{"Immediate resuscitation", "CPR", "Advanced cardiac life support"},
			ExpectedWaitTime: "Immediate (0 minutes)",
		},
		{
			ChiefComplaint: "Anaphylactic reaction after eating shellfish",
			Symptoms: []string{
				"Severe difficulty breathing", "Facial and throat swelling", "Full body hives",
				"Vomiting", "Feeling of impending doom",
			},
			Vitals: []Vital{
				{"pulse", "140"}, {"bp", "70/40"}, {"respiratory_rate", "32"},
				{"temperature", "37.1°C"}, {"oxygen_saturation", "85%"},
			},
			PainLevel:        "7/10",
			Onset:            "15 minutes ago",
			CTAS:             1,
			ExpectedActions:  []string{"Epinephrine administration", "Airway management", "IV steroids"},
			ExpectedWaitTime: "Immediate (0 minutes)",
		},
		// CTAS 2 – emergent
		{
			ChiefComplaint: "Severe chest pain with radiation to left arm and jaw",
			Symptoms: []string{
				"Crushing chest pain radiating to left arm", "Shortness of breath",
				"Nausea and vomiting", "Diaphoresis", "Anxiety",
			},
			Vitals: []Vital{
				{"pulse", "110"}, {"bp", "160/100"}, {"respiratory_rate", "24"},
				{"temperature", "37.0°C"}, {"oxygen_saturation", "92%"},
			},
			PainLevel:        "9/10",
			Onset:            "2 hours ago",
			CTAS:             2,
			ExpectedActions:  []string{"12-lead ECG", "Cardiac enzymes", "Cardiology consult"},
			ExpectedWaitTime: "Within 15 minutes",
		},
		{
			ChiefComplaint: "Severe abdominal pain with vomiting and fever",
			Symptoms: []string{
				"Severe right lower quadrant pain", "Nausea and vomiting", "Fever and chills",
				"Unable to walk upright", "Pain worse with movement",
			},
			Vitals: []Vital{
				{"pulse", "105"}, {"bp", "130/85"}, {"respiratory_rate", "22"},
				{"temperature", "38.8°C"}, {"oxygen_saturation", "96%"},
			},
			PainLevel:        "8/10",
			Onset:            "6 hours ago, worsening",
			CTAS:             2,
			ExpectedActions:  []string{"CT abdomen", "Surgical consultation", "IV antibiotics"},
			ExpectedWaitTime: "Within 15 minutes",
		},
		// CTAS 3 – urgent
		{
			ChiefComplaint: "Severe headache with visual changes and neck stiffness",
			Symptoms: []string{
				"Worst headache of life", "Blurred vision", "Neck stiffness",
				"Photophobia", "Mild confusion",
			},
			Vitals: []Vital{
				{"pulse", "95"}, {"bp", "150/95"}, {"respiratory_rate", "18"},
				{"temperature", "37.8°C"}, {"oxygen_saturation", "97%"},
			},
			PainLevel:        "8/10",
			Onset:            "4 hours ago",
			CTAS:             3,
			ExpectedActions:  []string{"CT head", "Lumbar puncture consideration", "Neurological assessment"},
			ExpectedWaitTime: "Within 30 minutes",
		},
		{
			ChiefComplaint: "Diabetic with high blood sugar and vomiting",
			Symptoms: []string{
				"Blood glucose >400 mg/dL", "Persistent vomiting", "Fruity breath odor",
				"Dehydration", "Weakness and fatigue",
			},
			Vitals: []Vital{
				{"pulse", "102"}, {"bp", "110/70"}, {"respiratory_rate", "20"},
				{"temperature", "37.1°C"}, {"oxygen_saturation", "98%"},
			},
			PainLevel:        "4/10",
			Onset:            "12 hours ago",
			CTAS:             3,
			ExpectedActions:  []string{"Blood gas analysis", "IV insulin", "Fluid resuscitation"},
			ExpectedWaitTime: "Within 30 minutes",
		},
		// CTAS 4 – less urgent
		{
			ChiefComplaint: "Ankle injury from fall with swelling and pain",
			Symptoms: []string{
				"Ankle swelling and bruising", "Unable to bear weight", "Pain with movement",
				"No obvious deformity", "Good circulation and sensation",
			},
			Vitals: []Vital{
				{"pulse", "82"}, {"bp", "130/85"}, {"respiratory_rate", "16"},
				{"temperature", "36.7°C"}, {"oxygen_saturation", "99%"},
			},
			PainLevel:        "6/10",
			Onset:            "2 hours ago",
			CTAS:             4,
			ExpectedActions:  []string{"X-ray ankle", "Pain management", "Orthopedic assessment"},
			ExpectedWaitTime: "Within 60 minutes",
		},
		{
			ChiefComplaint: "Urinary tract infection symptoms with fever",
			Symptoms: []string{
				"Burning with urination", "Frequent urination", "Cloudy urine",
				"Low-grade fever", "Lower abdominal discomfort",
			},
			Vitals: []Vital{
				{"pulse", "78"}, {"bp", "120/75"}, {"respiratory_rate", "14"},
				{"temperature", "37.6°C"}, {"oxygen_saturation", "99%"},
			},
			PainLevel:        "4/10",
			Onset:            "2 days ago, worsening",
			CTAS:             4,
			ExpectedActions:  []string{"Urinalysis", "Urine culture", "Antibiotic therapy"},
			ExpectedWaitTime: "Within 60 minutes",
		},
		// CTAS 5 – non-urgent
		{
			ChiefComplaint: "Minor cut on finger needing wound care",
			Symptoms: []string{
				"Small laceration on index finger", "Minimal bleeding", "Good sensation and movement",
				"No signs of infection", "Clean wound edges",
			},
			Vitals: []Vital{
				{"pulse", "68"}, {"bp", "118/72"}, {"respiratory_rate", "14"},
				{"temperature", "36.5°C"}, {"oxygen_saturation", "99%"},
			},
			PainLevel:        "2/10",
			Onset:            "3 hours ago",
			CTAS:             5,
			ExpectedActions:  []string{"Wound cleaning", "Steri-strips or sutures", "Tetanus status"},
			ExpectedWaitTime: "Within 120 minutes",
		},
		{
			ChiefComplaint: "Mild cold symptoms and cough for 3 days",
			Symptoms: []string{
				"Runny nose", "Mild cough", "Slight sore throat", "No fever",
				"Able to carry out normal activities",
			},
			Vitals: []Vital{
				{"pulse", "70"}, {"bp", "115/75"}, {"respiratory_rate", "15"},
				{"temperature", "36.4°C"}, {"oxygen_saturation", "99%"},
			},
			PainLevel:        "1/10",
			Onset:            "3 days ago",
			CTAS:             5,
			ExpectedActions:  []string{"Symptomatic care", "Rest and fluids", "Return if worsening"},
			ExpectedWaitTime: "Within 120 minutes",
		},
	}
}

const inputTemplate = `Patient Triage Request:

Patient: {{.patient}} (DOB: {{.dob}})

Chief Complaint: {{.complaint}}

Current Symptoms:
- {{join "\n- " .symptoms}}

Vital Signs:
- {{join "\n- " .vitals}}

Pain Level: {{.pain}}
Onset: {{.onset}}

Please coordinate the triage assessment by:
1. First retrieving the patient's medical history, immunizations, and diagnostic reports
2. Then performing a CTAS triage assessment based on the current presentation and historical data
3. Provide a comprehensive triage decision with rationale`

// renderInput assembles the triage request prompt for one patient scenario.
func renderInput(patient, dob string, sc Scenario) (string, error) {
	vitals := make([]string, len(sc.Vitals))
	for i, v := range sc.Vitals {
		vitals[i] = fmt.Sprintf("%s: %s", v.Name, v.Value)
	}
	return util.RenderTemplate(inputTemplate, map[string]any{
		"patient":   patient,
		"dob":       dob,
		"complaint": sc.ChiefComplaint,
		"symptoms":  sc.Symptoms,
		"vitals":    vitals,
		"pain":      sc.PainLevel,
		"onset":     sc.Onset,
	})
}

// renderExpected assembles the expected triage response for a scenario.
func renderExpected(sc Scenario) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CTAS Level: %d\n\n", sc.CTAS)
	sb.WriteString("Recommended Actions:\n")
	for _, action := range sc.ExpectedActions {
		fmt.Fprintf(&sb, "- %s\n", action)
	}
	fmt.Fprintf(&sb, "\nExpected Wait Time: %s\n\n", sc.ExpectedWaitTime)
	fmt.Fprintf(&sb,
		"Rationale: Patient presents with %s requiring CTAS Level %d assessment based on symptom severity and potential for deterioration.",
		strings.ToLower(sc.ChiefComplaint), sc.CTAS,
	)
	return sb.String()
}
