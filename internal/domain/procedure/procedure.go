package procedure

// Type identifies a class of tax-administration document. The value doubles
// as the wire identifier used by the HTTP API and the CLI.
type Type string

const (
	TypeSancionIVA            Type = "sancion_iva"
	TypeSancionIRPF           Type = "sancion_irpf"
	TypeSancionGenerica       Type = "sancion_generica"
	TypeLiquidacionIVA        Type = "liquidacion_iva"
	TypeLiquidacionIRPF       Type = "liquidacion_irpf"
	TypeLiquidacionGenerica   Type = "liquidacion_generica"
	TypeRequerimientoInfo     Type = "requerimiento_informacion"
	TypeRequerimientoGenerico Type = "requerimiento_generico"
	TypeActaInspeccion        Type = "acta_inspeccion"

	// TypeDesconocido marks documents the classifier could not map to a
	// known procedure. Deadlines still get computed under the general rule.
	TypeDesconocido Type = "desconocido"
)

// Stable deadline identifiers. Every computed deadline carries one of these
// names so that callers can address a specific term regardless of the
// procedure that produced it.
const (
	DeadlineVoluntaryPayment = "pago_voluntario"
	DeadlineReposicion       = "recurso_reposicion"
	DeadlineEconomicAdmin    = "reclamacion_economico_administrativa"
	DeadlineAplazamiento     = "solicitud_aplazamiento"
	DeadlineRespuesta        = "respuesta_requerimiento"
	DeadlineAlegaciones      = "alegaciones"
	DeadlineGenerico         = "plazo_general"
)

// Rule describes a single legal term counted from the notification date.
// Exactly one of BusinessDays or Months is set: terms expressed in days
// count business days only, terms expressed in months count calendar months
// with end-of-month clamping.
type Rule struct {
	Name         string
	Label        string
	BusinessDays int
	Months       int
}

// Profile groups the rules that apply to one document type. Notice is empty
// for recognized types and carries a warning when the general fallback rule
// was applied.
type Profile struct {
	Type   Type
	Label  string
	Rules  []Rule
	Notice string
}
