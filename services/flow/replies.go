package flow

import (
	"fmt"
	"strings"

	"github.com/velasquezhn3/vj-sub000/models"
	"github.com/velasquezhn3/vj-sub000/services/allocation"
	"github.com/velasquezhn3/vj-sub000/services/pricing"
)

// Guest-facing reply texts. Content only; addressing belongs to the transport.
const (
	msgAskDates = "¡Hola! Bienvenido a Cabañas VJ 🌴\n" +
		"¿Para qué fechas deseas reservar? Envía llegada y salida, por ejemplo: 10/08/2025 - 12/08/2025"
	msgBadDates = "No pude leer esas fechas 🙈. Envía llegada y salida así: 10/08/2025 - 12/08/2025 " +
		"(la salida debe ser después de la llegada)."
	msgAskName       = "¡Perfecto! ¿A nombre de quién hacemos la reserva?"
	msgAskPartySize  = "¿Cuántas personas son?"
	msgBadPartySize  = "Necesito un número de personas, por ejemplo: 4"
	msgTermsRepeat   = "Para continuar responde *sí* aceptando las condiciones, o escribe *menu* para empezar de nuevo."
	msgProofRepeat   = "Para completar tu reserva envía una foto o documento del comprobante de pago 🧾."
	msgPleaseWait    = "Tu comprobante está en revisión. Te avisamos en cuanto el equipo confirme tu reserva 🙌."
	msgApology       = "Lo sentimos, algo salió mal 😔. Volvamos a empezar: escribe cualquier mensaje para ver el menú."
	msgConfirmed     = "¡Tu reserva está confirmada! 🎉 Te esperamos. Gracias por elegir Cabañas VJ."
	msgProofRejected = "Tu comprobante no pudo ser validado 😕. Por favor envía nuevamente una foto o documento del pago."
	msgNoAvailability = "Lo sentimos, no tenemos cabañas disponibles para esas fechas 😔. " +
		"Escribe cualquier mensaje para intentar con otras fechas."
)

func msgPartyTooLarge(max int) string {
	return fmt.Sprintf("Nuestra cabaña más grande recibe hasta %d personas. "+
		"¿Pueden reducir el grupo o deseas hacer varias reservas?", max)
}

func msgTierTooSmall(unitType string, partySize int) string {
	return fmt.Sprintf("La %s recibe hasta %d personas y ustedes son %d. "+
		"Elige una cabaña más grande o responde *sí* para continuar con la sugerida.",
		strings.ToLower(allocation.TierDisplayName(unitType)),
		allocation.TierCapacity(unitType), partySize)
}

func msgQuote(draft models.BookingDraft) string {
	rateLine := ""
	if weekday, weekend, err := pricing.NightlyRates(draft.UnitType); err == nil {
		rateLine = fmt.Sprintf("Tarifa por noche: L %.2f (entre semana) / L %.2f (vie-sáb)\n", weekday, weekend)
	}
	return fmt.Sprintf(
		"Resumen de tu reserva:\n"+
			"🏠 %s\n📅 %s al %s (%d noches)\n👤 %s\n👥 %d personas\n"+
			"%s💵 Total: L %.2f\n\n"+
			"¿Aceptas las condiciones de reserva? Responde *sí* para continuar.",
		allocation.TierDisplayName(draft.UnitType),
		draft.CheckIn, draft.CheckOut, draft.Nights,
		draft.GuestName, draft.PartySize,
		rateLine, draft.TotalPrice)
}

func msgPaymentInstructions(draft models.BookingDraft) string {
	return fmt.Sprintf(
		"¡Listo! Tu reserva quedó registrada como pendiente.\n"+
			"Para asegurarla deposita L %.2f y envía aquí la foto o documento del comprobante 🧾.",
		draft.TotalPrice)
}

func operatorSummary(res *models.Reservation, draft models.BookingDraft) string {
	return fmt.Sprintf(
		"📋 Nueva reserva pendiente %s\n"+
			"Cliente: %s (%s)\n%s al %s (%d noches), %d personas\n"+
			"Tipo: %s\nTotal: L %.2f",
		res.ID, draft.GuestName, res.SubjectID,
		res.StartDate, res.EndDate, draft.Nights, res.PartySize,
		allocation.TierDisplayName(res.UnitType), res.TotalPrice)
}
