package procedure

import (
	"sort"
	"strings"
)

// Registry resolves document types to their deadline profiles.
type Registry interface {
	// Resolve maps a raw document-type string to a profile. Unrecognized
	// input resolves to the general fallback profile, never to an error.
	Resolve(docType string) *Profile

	// Normalize converts a raw document-type string or alias to its
	// canonical Type. Unrecognized input reports ok = false.
	Normalize(docType string) (Type, bool)

	// List returns every recognized type in stable order.
	List() []Type
}

// InMemoryRegistry is the built-in AEAT rule table.
type InMemoryRegistry struct {
	profiles map[Type]*Profile
	aliases  map[string]Type
	fallback *Profile
}

// NewRegistry builds a registry loaded with the AEAT procedure rules.
func NewRegistry() *InMemoryRegistry {
	r := &InMemoryRegistry{
		profiles: make(map[Type]*Profile),
		aliases:  make(map[string]Type),
	}
	r.init()
	return r
}

// resolutionRules apply to sanctions and liquidations alike: the debt enters
// the voluntary payment period and both review tracks open at notification.
func resolutionRules() []Rule {
	return []Rule{
		{Name: DeadlineVoluntaryPayment, Label: "Pago en período voluntario", BusinessDays: 30},
		{Name: DeadlineReposicion, Label: "Recurso de reposición", BusinessDays: 15},
		{Name: DeadlineEconomicAdmin, Label: "Reclamación económico-administrativa", Months: 1},
		{Name: DeadlineAplazamiento, Label: "Solicitud de aplazamiento o fraccionamiento", BusinessDays: 30},
	}
}

func (r *InMemoryRegistry) init() {
	// Sanciones
	r.add(TypeSancionIVA, "Sanción IVA", resolutionRules())
	r.add(TypeSancionIRPF, "Sanción IRPF", resolutionRules())
	r.add(TypeSancionGenerica, "Sanción tributaria", resolutionRules())
	r.addAlias("sancion", TypeSancionGenerica)
	r.addAlias("multa", TypeSancionGenerica)

	// Liquidaciones
	r.add(TypeLiquidacionIVA, "Liquidación IVA", resolutionRules())
	r.add(TypeLiquidacionIRPF, "Liquidación IRPF", resolutionRules())
	r.add(TypeLiquidacionGenerica, "Liquidación tributaria", resolutionRules())
	r.addAlias("liquidacion", TypeLiquidacionGenerica)
	r.addAlias("paralela", TypeLiquidacionGenerica)

	// Requerimientos
	requerimiento := []Rule{
		{Name: DeadlineRespuesta, Label: "Respuesta al requerimiento", BusinessDays: 10},
	}
	r.add(TypeRequerimientoInfo, "Requerimiento de información", requerimiento)
	r.add(TypeRequerimientoGenerico, "Requerimiento", requerimiento)
	r.addAlias("requerimiento", TypeRequerimientoGenerico)

	// Inspección
	r.add(TypeActaInspeccion, "Acta de inspección", []Rule{
		{Name: DeadlineAlegaciones, Label: "Alegaciones al acta", BusinessDays: 15},
	})
	r.addAlias("acta", TypeActaInspeccion)
	r.addAlias("acta de inspeccion", TypeActaInspeccion)

	r.fallback = &Profile{
		Type:  TypeDesconocido,
		Label: "Documento no clasificado",
		Rules: []Rule{
			{Name: DeadlineGenerico, Label: "Plazo general de respuesta", BusinessDays: 10},
		},
		Notice: "Tipo de documento no reconocido; se aplica el plazo general de 10 días hábiles. Revise el documento original.",
	}
}

func (r *InMemoryRegistry) add(t Type, label string, rules []Rule) {
	r.profiles[t] = &Profile{Type: t, Label: label, Rules: rules}
}

func (r *InMemoryRegistry) addAlias(alias string, target Type) {
	r.aliases[canonicalKey(alias)] = target
}

// Resolve implements Registry.
func (r *InMemoryRegistry) Resolve(docType string) *Profile {
	if t, ok := r.Normalize(docType); ok {
		return r.profiles[t]
	}
	return r.fallback
}

// Normalize implements Registry.
func (r *InMemoryRegistry) Normalize(docType string) (Type, bool) {
	key := canonicalKey(docType)
	if _, ok := r.profiles[Type(key)]; ok {
		return Type(key), true
	}
	if t, ok := r.aliases[key]; ok {
		return t, true
	}
	return TypeDesconocido, false
}

// Fallback returns the profile applied to unrecognized documents.
func (r *InMemoryRegistry) Fallback() *Profile {
	return r.fallback
}

// List implements Registry.
func (r *InMemoryRegistry) List() []Type {
	list := make([]Type, 0, len(r.profiles))
	for t := range r.profiles {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u",
)

// canonicalKey lowercases, folds accents and joins words with underscores so
// that "Sanción IVA" and "sancion_iva" resolve identically.
func canonicalKey(s string) string {
	key := accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
	key = strings.ReplaceAll(key, "-", " ")
	return strings.Join(strings.Fields(key), "_")
}
