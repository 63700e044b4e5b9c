package inbound

// RegisterVoterRequest also reads the web client's "aadharID" spelling.
type RegisterVoterRequest struct {
	VoterAddress string `json:"voterAddress"`
	AadhaarID    string `json:"aadhaarId"`
	AadharID     string `json:"aadharID"`
	Email        string `json:"email"`
}

func (r RegisterVoterRequest) identifier() string {
	return firstNonEmpty(r.AadhaarID, r.AadharID)
}

type RegisterVoterResponse struct {
	TxHash string `json:"txHash"`
}

func (RegisterVoterResponse) Message() string {
	return "Voter registered successfully!"
}

type SendOTPRequest struct {
	Email     string `json:"email"`
	AadhaarID string `json:"aadhaarId"`
	AadharID  string `json:"aadharID"`
}

func (r SendOTPRequest) identifier() string {
	return firstNonEmpty(r.AadhaarID, r.AadharID)
}

type SendOTPResponse struct{}

func (SendOTPResponse) Message() string {
	return "OTP sent successfully!"
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyOTPResponse struct {
	VoterAddress string `json:"voterAddress"`
	Token        string `json:"token"`
}

func (VerifyOTPResponse) Message() string {
	return "OTP verified successfully!"
}

// FingerprintRequest accepts "userId" as the older name of voterAddress.
type FingerprintRequest struct {
	VoterAddress    string `json:"voterAddress"`
	UserID          string `json:"userId"`
	FingerprintData string `json:"fingerprintData"`
}

func (r FingerprintRequest) address() string {
	return firstNonEmpty(r.VoterAddress, r.UserID)
}

type RegisterFingerprintResponse struct{}

func (RegisterFingerprintResponse) Message() string {
	return "Fingerprint registered successfully!"
}

type AuthenticateFingerprintResponse struct {
	VoterAddress string `json:"voterAddress"`
	Token        string `json:"token"`
}

func (AuthenticateFingerprintResponse) Message() string {
	return "Fingerprint verified successfully!"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
