package kiosk

import "fmt"

// Cue identifies a spoken prompt.
type Cue string

const (
	CueWelcome           Cue = "welcome"
	CueExistingPatient   Cue = "existing_patient"
	CueIdentityPrompt    Cue = "identity_prompt"
	CuePatientKnown      Cue = "patient_known"
	CueIdentityPrefilled Cue = "identity_prefilled"
	CueIdentityUnknown   Cue = "identity_unknown"
	CueRegistered        Cue = "registered"
	CuePatientFound      Cue = "patient_found"
	CueHistory           Cue = "history"
	CueDepartmentPrompt  Cue = "department_prompt"
	CueDepartmentChosen  Cue = "department_chosen"
	CueDoctorsShown      Cue = "doctors_shown"
	CueDoctorChosen      Cue = "doctor_chosen"
	CuePaymentPrompt     Cue = "payment_prompt"
	CuePaymentExpired    Cue = "payment_expired"
	CuePaymentConfirmed  Cue = "payment_confirmed"
	CueSlip              Cue = "slip"
	CueEmergency         Cue = "emergency"
)

// phrases holds format strings per cue and locale. Placeholders are filled
// positionally by Phrase.
var phrases = map[Cue]map[Locale]string{
	CueWelcome: {
		LocaleEnglish: "Welcome to SmartCare Hospital. Please select New Patient or Existing Patient to proceed.",
		LocaleTamil:   "ஸ்மார்ட்கேர் மருத்துவமனைக்கு வருக.",
	},
	CueExistingPatient: {
		LocaleEnglish: "Existing Patient. Please search with your mobile number or name.",
		LocaleTamil:   "தற்போதைய நோயாளி தேடல்.",
	},
	CueIdentityPrompt: {
		LocaleEnglish: "Please enter your 12-digit Aadhaar number using the keypad below.",
		LocaleTamil:   "கீழே உள்ள விசைப்பலகையைப் பயன்படுத்தி உங்கள் 12 இலக்க ஆதார் எண்ணை உள்ளிடவும்.",
	},
	CuePatientKnown: {
		LocaleEnglish: "Patient %s already registered. Redirecting to existing patient.",
		LocaleTamil:   "நோயாளி %s ஏற்கனவே பதிவு செய்யப்பட்டுள்ளார்.",
	},
	CueIdentityPrefilled: {
		LocaleEnglish: "Aadhaar details found for %s. Please confirm your details.",
		LocaleTamil:   "%s க்கான ஆதார் விவரங்கள் கிடைத்தன.",
	},
	CueIdentityUnknown: {
		LocaleEnglish: "New Aadhaar detected. Please fill in your details.",
		LocaleTamil:   "புதிய ஆதார். உங்கள் விவரங்களை நிரப்பவும்.",
	},
	CueRegistered: {
		LocaleEnglish: "Registration successful! Welcome %s.",
		LocaleTamil:   "பதிவு வெற்றிகரமாக முடிந்தது! வருக %s.",
	},
	CuePatientFound: {
		LocaleEnglish: "Found %s. Loading records.",
		LocaleTamil:   "%s கண்டுபிடிக்கப்பட்டார். ஆவணங்கள் ஏற்றப்படுகின்றன.",
	},
	CueHistory: {
		LocaleEnglish: "Welcome back, %s. Here are your visit records.",
		LocaleTamil:   "மீண்டும் வருக, %s. உங்கள் முந்தைய வருகை ஆவணங்கள் இங்கே.",
	},
	CueDepartmentPrompt: {
		LocaleEnglish: "Please select the department you wish to consult.",
		LocaleTamil:   "தயவுசெய்து நீங்கள் ஆலோசிக்க விரும்பும் துறையைத் தேர்ந்தெடுக்கவும்.",
	},
	CueDepartmentChosen: {
		LocaleEnglish: "You selected %s. Loading available doctors.",
		LocaleTamil:   "நீங்கள் %s துறையைத் தேர்ந்தெடுத்துள்ளீர்கள்.",
	},
	CueDoctorsShown: {
		LocaleEnglish: "Showing doctors for %s. Please select a doctor and available time slot.",
		LocaleTamil:   "%s மருத்துவர்கள் காட்டப்படுகிறார்கள். தயவுசெய்து ஒரு மருத்துவரையும் நேரத்தையும் தேர்ந்தெடுக்கவும்.",
	},
	CueDoctorChosen: {
		LocaleEnglish: "You have selected %s at %s. Proceeding to payment.",
		LocaleTamil:   "நீங்கள் %s நிபுணரை %s மணிக்குத் தேர்ந்தெடுத்துள்ளீர்கள்.",
	},
	CuePaymentPrompt: {
		LocaleEnglish: "Please complete the UPI payment of Rupees %d. Scan the QR code or use UPI ID. You have %d minutes.",
		LocaleTamil:   "தயவுசெய்து %d ரூபாய்க்கான UPI கட்டணத்தை முடிக்கவும். QR குறியீட்டை ஸ்கேன் செய்யுங்கள் அல்லது UPI ஐடியைப் பயன்படுத்தவும். உங்களுக்கு %d நிமிடங்கள் உள்ளன.",
	},
	CuePaymentExpired: {
		LocaleEnglish: "Payment time expired. Please try again.",
		LocaleTamil:   "கட்டணம் செலுத்தும் நேரம் முடிந்தது. மீண்டும் முயற்சிக்கவும்.",
	},
	CuePaymentConfirmed: {
		LocaleEnglish: "Payment confirmed! Your appointment ID is %s. Token number %d. Preparing your appointment slip.",
		LocaleTamil:   "பணம் செலுத்தியது உறுதி செய்யப்பட்டது! உங்கள் முன்பதிவு எண் %s. டோக்கன் எண் %d. உங்கள் முன்பதிவு சீட்டு தயாராகிறது.",
	},
	CueSlip: {
		LocaleEnglish: "Your appointment has been confirmed! Appointment ID: %s. Token number %d. Your slip is being printed. Please collect it.",
		LocaleTamil:   "உங்கள் முன்பதிவு உறுதி செய்யப்பட்டது! முன்பதிவு எண்: %s. டோக்கன் எண் %d. உங்கள் சீட்டு அச்சடிக்கப்படுகிறது. தயவுசெய்து அதை பெற்றுக்கொள்ளுங்கள்.",
	},
	CueEmergency: {
		LocaleEnglish: "Emergency services are being alerted. Please stay calm. Staff will reach you shortly.",
		LocaleTamil:   "அவசர சேவைகளுக்கு தகவல் அனுப்பப்படுகிறது. அமைதியாக இருங்கள். ஊழியர்கள் விரைவில் உங்களை அணுகுவார்கள்.",
	},
}

// Phrase renders cue in loc, falling back to English for a missing locale.
func Phrase(cue Cue, loc Locale, args ...any) string {
	byLocale, ok := phrases[cue]
	if !ok {
		return ""
	}
	format, ok := byLocale[loc]
	if !ok {
		format = byLocale[LocaleEnglish]
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
