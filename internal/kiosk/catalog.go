package kiosk

// Departments is the static department catalog shown on the kiosk.
var Departments = []Department{
	{
		ID:       "pediatrician",
		Label:    map[Locale]string{LocaleEnglish: "Pediatrician", LocaleTamil: "குழந்தை மருத்துவம்"},
		Icon:     "👶",
		Color:    "#e0f2fe",
		ImageURL: "https://images.unsplash.com/photo-1542887800-faca0261c9e1?auto=format&fit=crop&q=80&w=600",
	},
	{
		ID:       "neurologist",
		Label:    map[Locale]string{LocaleEnglish: "Neurologist", LocaleTamil: "நரம்பியல்"},
		Icon:     "🧠",
		Color:    "#ede9fe",
		ImageURL: "https://images.unsplash.com/photo-1559757175-5700dde675bc?auto=format&fit=crop&q=80&w=600",
	},
	{
		ID:       "cardiologist",
		Label:    map[Locale]string{LocaleEnglish: "Cardiologist", LocaleTamil: "இதயவியல்"},
		Icon:     "❤️",
		Color:    "#ffe4e6",
		ImageURL: "https://images.unsplash.com/photo-1628348068343-c6a848d2b6dd?auto=format&fit=crop&q=80&w=600",
	},
	{
		ID:       "ophthalmologist",
		Label:    map[Locale]string{LocaleEnglish: "Ophthalmologist", LocaleTamil: "கண் மருத்துவம்"},
		Icon:     "👁️",
		Color:    "#cffafe",
		ImageURL: "https://images.unsplash.com/photo-1588543385566-413e13a51a24?auto=format&fit=crop&q=80&w=600",
	},
	{
		ID:       "orthopedic",
		Label:    map[Locale]string{LocaleEnglish: "Orthopedic", LocaleTamil: "எலும்பியல்"},
		Icon:     "🦴",
		Color:    "#ffedd5",
		ImageURL: "https://images.unsplash.com/photo-1579991206141-8f59da7b0ab0?auto=format&fit=crop&q=80&w=600",
	},
}

// FindDepartment looks a department up by ID.
func FindDepartment(id string) (*Department, bool) {
	for i := range Departments {
		if Departments[i].ID == id {
			d := Departments[i]
			return &d, true
		}
	}
	return nil, false
}

// DefaultDoctors is the built-in roster. It seeds the store and stands in
// for the directory when the store has nothing for a department.
var DefaultDoctors = []Doctor{
	{ID: "n1", Name: "Dr. Rajesh Kumar", Department: "neurologist", Qualification: "MD Neurology, DM", Experience: "12 years", Fee: 600, AvailableSlots: []string{"9:00 AM", "9:30 AM", "10:00 AM", "11:00 AM", "11:30 AM"}, Languages: []string{"English", "Hindi"}},
	{ID: "n2", Name: "Dr. Ananya Mehta", Department: "neurologist", Qualification: "MBBS, MD, DNB Neuro", Experience: "8 years", Fee: 500, AvailableSlots: []string{"10:30 AM", "2:00 PM", "2:30 PM", "3:00 PM"}, Languages: []string{"English", "Gujarati"}},
	{ID: "o1", Name: "Dr. Sunil Verma", Department: "ophthalmologist", Qualification: "MS Ophthalmology", Experience: "15 years", Fee: 450, AvailableSlots: []string{"8:30 AM", "9:00 AM", "9:30 AM", "4:00 PM"}, Languages: []string{"English", "Hindi"}},
	{ID: "o2", Name: "Dr. Priya Sharma", Department: "ophthalmologist", Qualification: "DNB Ophthalmology", Experience: "7 years", Fee: 400, AvailableSlots: []string{"11:00 AM", "11:30 AM", "3:00 PM", "3:30 PM"}, Languages: []string{"English", "Hindi"}},
	{ID: "p1", Name: "Dr. Kavitha Nair", Department: "pediatrician", Qualification: "MD Pediatrics, DCH", Experience: "10 years", Fee: 400, AvailableSlots: []string{"9:00 AM", "10:00 AM", "10:30 AM", "5:00 PM"}, Languages: []string{"English", "Malayalam", "Tamil"}},
	{ID: "p2", Name: "Dr. Arjun Pillai", Department: "pediatrician", Qualification: "MBBS, DCH, MD", Experience: "6 years", Fee: 350, AvailableSlots: []string{"11:00 AM", "11:30 AM", "2:00 PM", "2:30 PM"}, Languages: []string{"English", "Tamil"}},
	{ID: "c1", Name: "Dr. Ramesh Gupta", Department: "cardiologist", Qualification: "DM Cardiology, MD", Experience: "18 years", Fee: 700, AvailableSlots: []string{"8:00 AM", "8:30 AM", "9:00 AM", "4:30 PM"}, Languages: []string{"English", "Hindi"}},
	{ID: "c2", Name: "Dr. Meena Iyer", Department: "cardiologist", Qualification: "MD, DM Cardiology", Experience: "11 years", Fee: 650, AvailableSlots: []string{"10:00 AM", "10:30 AM", "3:00 PM", "3:30 PM"}, Languages: []string{"English", "Tamil"}},
	{ID: "or1", Name: "Dr. Vikram Singh", Department: "orthopedic", Qualification: "MS Ortho, MBBS", Experience: "14 years", Fee: 550, AvailableSlots: []string{"9:30 AM", "10:00 AM", "11:00 AM", "5:30 PM"}, Languages: []string{"English", "Punjabi"}},
	{ID: "or2", Name: "Dr. Geeta Bhatt", Department: "orthopedic", Qualification: "DNB Orthopedics", Experience: "9 years", Fee: 500, AvailableSlots: []string{"11:30 AM", "2:00 PM", "2:30 PM", "3:00 PM"}, Languages: []string{"English", "Hindi"}},
}

func defaultDoctorsFor(departmentID string) []Doctor {
	var out []Doctor
	for _, d := range DefaultDoctors {
		if d.Department == departmentID {
			out = append(out, d)
		}
	}
	return out
}
