package steps

import (
	"fmt"

	"github.com/goliatone/go-eticket/pkg/formstate"
)

// Declaration is the typed view of a completed value tree. Field tags follow
// the dotted paths the catalog assigns, so a form decodes into it directly.
type Declaration struct {
	Travelers []Traveler `json:"travelers,omitempty"`
	Contact   Contact    `json:"contactInfo"`
	Flight    Flight     `json:"flightInfo"`
	Customs   Customs    `json:"customs"`
}

// Traveler holds the per-traveler answers.
type Traveler struct {
	Personal Personal `json:"personalInfo"`
	Passport Passport `json:"passport"`
}

type Personal struct {
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
	Sex           string `json:"sex,omitempty"`
	Nationality   string `json:"nationality,omitempty"`
	BirthCountry  string `json:"birthCountry,omitempty"`
	MaritalStatus string `json:"maritalStatus,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
}

type Passport struct {
	Number              string `json:"number,omitempty"`
	ExpiryDate          string `json:"expiryDate,omitempty"`
	IssuingCountry      string `json:"issuingCountry,omitempty"`
	HasOtherNationality bool   `json:"hasOtherNationality"`
	OtherNationality    string `json:"otherNationality,omitempty"`
}

type Contact struct {
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	WantsCopy             bool   `json:"wantsCopy"`
	ResidenceCountry      string `json:"residenceCountry,omitempty"`
	ResidenceCity         string `json:"residenceCity,omitempty"`
	ResidenceAddress      string `json:"residenceAddress,omitempty"`
	StayAddress           string `json:"stayAddress,omitempty"`
	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
}

type Flight struct {
	Direction              string `json:"direction,omitempty"`
	Airline                string `json:"airline,omitempty"`
	FlightNumber           string `json:"flightNumber,omitempty"`
	TravelDate             string `json:"travelDate,omitempty"`
	OriginCountry          string `json:"originCountry,omitempty"`
	DestinationCountry     string `json:"destinationCountry,omitempty"`
	PortOfEntry            string `json:"portOfEntry,omitempty"`
	HasConnection          bool   `json:"hasConnection"`
	ConnectionFlightNumber string `json:"connectionFlightNumber,omitempty"`
}

type Customs struct {
	CarriesCurrency         bool   `json:"carriesCurrency"`
	CurrencyAmount          string `json:"currencyAmount,omitempty"`
	CarriesAnimalsOrFood    bool   `json:"carriesAnimalsOrFood"`
	AnimalsOrFoodDetails    string `json:"animalsOrFoodDetails,omitempty"`
	CarriesTaxableGoods     bool   `json:"carriesTaxableGoods"`
	TaxableGoodsValue       string `json:"taxableGoodsValue,omitempty"`
	TaxableGoodsDescription string `json:"taxableGoodsDescription,omitempty"`
	DeclarationAccepted     bool   `json:"declarationAccepted"`
}

// DecodeDeclaration maps the form's value tree onto a Declaration. Answers
// restored from a draft as strings are converted weakly.
func DecodeDeclaration(form *formstate.Form) (Declaration, error) {
	var decl Declaration
	if err := form.Decode(&decl); err != nil {
		return Declaration{}, fmt.Errorf("steps: declaration: %w", err)
	}
	return decl, nil
}
