package kiosk

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const hospitalName = "SmartCare Hospital"

// Slip is what the confirmation screen prints and offers to share.
type Slip struct {
	Appointment  Appointment `json:"appointment"`
	Patient      *Patient    `json:"patient"`
	RecordsToken string      `json:"recordsToken,omitempty"`
	RecordsURL   string      `json:"recordsUrl,omitempty"`
	WhatsAppURL  string      `json:"whatsappUrl,omitempty"`
}

// PaymentQuote is the payment screen: the fee, the UPI intent to encode in
// the QR code and the time left on the window.
type PaymentQuote struct {
	Doctor           Doctor `json:"doctor"`
	Slot             string `json:"slot"`
	Fee              int    `json:"fee"`
	UPIIntent        string `json:"upiIntent"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

// UPIIntent builds the upi://pay URI for amount rupees.
func UPIIntent(payee, payeeName string, amount int, note string) string {
	q := url.Values{}
	q.Set("pa", payee)
	q.Set("pn", payeeName)
	q.Set("am", strconv.Itoa(amount)+".00")
	q.Set("cu", "INR")
	if note != "" {
		q.Set("tn", note)
	}
	return "upi://pay?" + q.Encode()
}

// RecordsURL joins the companion records page prefix and a token.
func RecordsURL(base, tokenID string) string {
	if base == "" || tokenID == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(tokenID)
}

// WhatsAppPhone normalizes a mobile number to the 91-prefixed form wa.me
// expects. A bare 10-digit number starting with 91 is still a local number.
func WhatsAppPhone(phone string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if len(phone) == PhoneNumberLength+2 && strings.HasPrefix(phone, "91") {
		return phone
	}
	return "91" + phone
}

// WhatsAppShareURL returns a wa.me link carrying the booking summary.
func WhatsAppShareURL(a Appointment, phone string) string {
	msg := fmt.Sprintf("*Appointment Confirmed!* 🏥\n\n*Name:* %s\n*Doctor:* %s\n*Date:* %s\n*Time:* %s\n*Token:* %d\n\nThank you for choosing %s.",
		a.PatientName, a.DoctorName, a.Date, a.Slot, a.TokenNumber, hospitalName)
	return "https://wa.me/" + WhatsAppPhone(phone) + "?text=" + url.QueryEscape(msg)
}
