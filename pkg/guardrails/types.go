package guardrails

// ThreatCategory names a class of unsafe input.
type ThreatCategory string

const (
	ThreatPromptInjection ThreatCategory = "prompt_injection"
	ThreatCodeInjection   ThreatCategory = "code_injection"
	ThreatSQLInjection    ThreatCategory = "sql_injection"
)

// InputValidation is the outcome of validating a piece of input text.
type InputValidation struct {
	IsSafe          bool             `json:"is_safe"`
	ThreatsDetected []ThreatCategory `json:"threats_detected"`
}

// SanitizedOutput is the outcome of redacting PII from output text.
type SanitizedOutput struct {
	SanitizedText string `json:"sanitized_text"`
	PIIRemoved    bool   `json:"pii_removed"`
}

// InjectionReason names why a prompt was considered malicious.
type InjectionReason string

const (
	ReasonSafe                InjectionReason = "safe"
	ReasonInstructionOverride InjectionReason = "instruction_override"
	ReasonCredentialRequest   InjectionReason = "credential_request"
	ReasonPrivilegeEscalation InjectionReason = "privilege_escalation"
	ReasonXSSAttempt          InjectionReason = "xss_attempt"
	ReasonSQLInjection        InjectionReason = "sql_injection"
	ReasonDataExfiltration    InjectionReason = "data_exfiltration"
	ReasonSecurityBypass      InjectionReason = "security_bypass"
	ReasonTemplateInjection   InjectionReason = "template_injection"
)

// LeakageReport summarizes overlap between training and test data sets.
type LeakageReport struct {
	HasLeakage    bool    `json:"has_leakage"`
	LeakageCount  int     `json:"leakage_count"`
	LeakageRatio  float64 `json:"leakage_ratio"`
	TotalTraining int     `json:"total_training"`
	TotalTest     int     `json:"total_test"`
}
