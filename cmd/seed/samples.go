package main

import "github.com/hackgods/hospital-kiosk/internal/kiosk"

// samplePatients match the first five identities in the reference registry,
// so scanning those numbers at the kiosk lands on a known patient with history.
var samplePatients = []kiosk.Patient{
	{
		Aadhaar: "432156789012",
		Name:    "Nisha Reddy",
		Age:     31,
		Gender:  "Female",
		Phone:   "9811223344",
		Visits: []kiosk.Visit{
			{Date: "2025-11-10", Department: "Ophthalmologist", Doctor: "Dr. Sunil Verma", Fee: 450, Token: "A12", Status: "Completed", Prescription: "Moxifloxacin Eye Drops 0.5% (1 drop, 3 times a day for 7 days)", LabResult: "Vision Test: 20/20. No signs of glaucoma."},
			{Date: "2026-01-20", Department: "Neurologist", Doctor: "Dr. Rajesh Kumar", Fee: 600, Token: "B04", Status: "Completed", Prescription: "Amitriptyline 10mg (1 tablet at night for 14 days)", LabResult: "MRI Brain: Unremarkable. Normal study."},
		},
	},
	{
		Aadhaar: "543217890123",
		Name:    "Mohan Das",
		Age:     47,
		Gender:  "Male",
		Phone:   "9922334455",
		Visits: []kiosk.Visit{
			{Date: "2025-10-05", Department: "Cardiologist", Doctor: "Dr. Ramesh Gupta", Fee: 700, Token: "C07", Status: "Completed", Prescription: "Atorvastatin 20mg (1 tablet daily post dinner)", LabResult: "Lipid Profile: Total Cholesterol 240mg/dL (High)."},
			{Date: "2026-02-01", Department: "Orthopedic", Doctor: "Dr. Vikram Singh", Fee: 550, Token: "D11", Status: "Completed", Prescription: "Ibuprofen 400mg (as needed for pain), Calcium supplements", LabResult: "X-Ray Knee: Mild osteoarthritis."},
		},
	},
	{
		Aadhaar: "654328901234",
		Name:    "Lakshmi Krishnan",
		Age:     55,
		Gender:  "Female",
		Phone:   "9733445566",
		Visits: []kiosk.Visit{
			{Date: "2025-09-15", Department: "Pediatrician", Doctor: "Dr. Kavitha Nair", Fee: 400, Token: "E02", Status: "Completed", Prescription: "Paracetamol 250mg syrup (5ml SOS for fever), Cough syrup (5ml twice daily)", LabResult: "Complete Blood Count: Normal."},
			{Date: "2025-12-22", Department: "Cardiologist", Doctor: "Dr. Meena Iyer", Fee: 650, Token: "F09", Status: "Completed", Prescription: "Metoprolol 25mg (1 tablet morning)", LabResult: "ECG: Normal sinus rhythm. BP: 140/90."},
			{Date: "2026-02-18", Department: "Neurologist", Doctor: "Dr. Ananya Mehta", Fee: 500, Token: "G05", Status: "Completed", Prescription: "Donepezil 5mg (1 tablet before bed)", LabResult: "CT Head: Age-related cerebral atrophy."},
		},
	},
	{
		Aadhaar: "765439012345",
		Name:    "Sanjay Mehta",
		Age:     39,
		Gender:  "Male",
		Phone:   "9644556677",
		Visits: []kiosk.Visit{
			{Date: "2025-08-30", Department: "Orthopedic", Doctor: "Dr. Geeta Bhatt", Fee: 500, Token: "H03", Status: "Completed", Prescription: "Diclofenac Gel (apply locally 2 times a day)", LabResult: "MRI Spine: L4-L5 disc desiccation."},
			{Date: "2026-01-10", Department: "Ophthalmologist", Doctor: "Dr. Priya Sharma", Fee: 400, Token: "I08", Status: "Completed", Prescription: "Lubricating Eye Drops (Carboxymethylcellulose 0.5%)", LabResult: "Dry Eye Test: Positive."},
		},
	},
	{
		Aadhaar: "876540123456",
		Name:    "Divya Pillai",
		Age:     26,
		Gender:  "Female",
		Phone:   "9555667788",
		Visits: []kiosk.Visit{
			{Date: "2025-07-14", Department: "Pediatrician", Doctor: "Dr. Arjun Pillai", Fee: 350, Token: "J06", Status: "Completed", Prescription: "Cetirizine Syrup (5ml at bedtime for 5 days)", LabResult: "Allergy Test: Mild dust mite allergy."},
			{Date: "2025-11-27", Department: "Neurologist", Doctor: "Dr. Rajesh Kumar", Fee: 600, Token: "K01", Status: "Completed", Prescription: "Sumatriptan 50mg (Take at onset of migraine)", LabResult: "No acute findings."},
			{Date: "2026-02-14", Department: "Orthopedic", Doctor: "Dr. Vikram Singh", Fee: 550, Token: "L10", Status: "Completed", Prescription: "Vitamin D3 60,000 IU (once a week for 8 weeks)", LabResult: "Vit D levels: 12 ng/mL (Deficient)."},
		},
	},
}
