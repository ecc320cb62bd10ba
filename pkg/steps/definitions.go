package steps

import (
	"github.com/goliatone/go-eticket/pkg/model"
)

// Step identifiers in wizard order.
const (
	PersonalInfoID       = "personal-info"
	ContactInfoID        = "contact-info"
	FlightInfoID         = "flight-info"
	CustomsDeclarationID = "customs"
	ReviewID             = "review"
)

// PersonalInfo collects identity and passport data for one traveler.
func PersonalInfo() model.StepDefinition {
	countries := CountryOptions()
	return model.StepDefinition{
		ID:          PersonalInfoID,
		Title:       "Personal information",
		Description: "Enter the details exactly as they appear in the passport.",
		PerTraveler: true,
		Sections: []model.SectionDefinition{
			{
				ID:     "personal",
				Title:  "Traveler",
				Prefix: "personalInfo",
				Fields: []model.FieldDefinition{
					{Name: "firstName", Type: model.FieldTypeText, Label: "First names", UIHints: map[string]string{"autocomplete": "given-name"}},
					{Name: "lastName", Type: model.FieldTypeText, Label: "Last names", UIHints: map[string]string{"autocomplete": "family-name"}},
					{Name: "birthDate", Type: model.FieldTypeDate, Label: "Date of birth", UIHints: map[string]string{"autocomplete": "bday"}},
					{Name: "sex", Type: model.FieldTypeRadio, Layout: model.LayoutHorizontal, Options: []model.Option{
						{Value: "female", Label: "Female"},
						{Value: "male", Label: "Male"},
						{Value: "unspecified", Label: "Unspecified"},
					}},
					{Name: "nationality", Type: model.FieldTypeSelect, Options: countries},
					{Name: "birthCountry", Type: model.FieldTypeSelect, Label: "Country of birth", Options: countries},
					{Name: "maritalStatus", Type: model.FieldTypeSelect, Options: []model.Option{
						{Value: "single"}, {Value: "married"}, {Value: "divorced"}, {Value: "widowed"}, {Value: "other"},
					}},
					{Name: "occupation", Type: model.FieldTypeText},
				},
			},
			{
				ID:     "passport",
				Title:  "Passport",
				Prefix: "passport",
				Fields: []model.FieldDefinition{
					{Name: "number", Type: model.FieldTypeText, Label: "Passport number", Placeholder: "X1234567"},
					{Name: "expiryDate", Type: model.FieldTypeDate, Label: "Expiry date"},
					{Name: "issuingCountry", Type: model.FieldTypeSelect, Label: "Issuing country", Options: countries},
					{Name: "hasOtherNationality", Type: model.FieldTypeBoolean, Label: "Do you hold another nationality?"},
					{Name: "otherNationality", Type: model.FieldTypeSelect, Label: "Other nationality", Options: countries,
						VisibleWhen: "@hasOtherNationality == true"},
				},
			},
		},
	}
}

// ContactInfo collects how to reach the travel group.
func ContactInfo() model.StepDefinition {
	return model.StepDefinition{
		ID:          ContactInfoID,
		Title:       "Contact information",
		Description: "The confirmation and QR code are sent to this address.",
		Prefix:      "contactInfo",
		Sections: []model.SectionDefinition{
			{
				ID:    "contact",
				Title: "Contact",
				Fields: []model.FieldDefinition{
					{Name: "email", Type: model.FieldTypeEmail, Label: "Email", Placeholder: "name@example.com",
						UIHints: map[string]string{"autocomplete": "email"}},
					{Name: "phone", Type: model.FieldTypeTel, Label: "Phone number", Placeholder: "+1 809 555 0101",
						UIHints: map[string]string{"autocomplete": "tel"}},
					{Name: "wantsCopy", Type: model.FieldTypeCheckbox, Label: "Send me a copy of the declaration"},
				},
			},
			{
				ID:    "residence",
				Title: "Residence",
				Fields: []model.FieldDefinition{
					{Name: "residenceCountry", Type: model.FieldTypeSelect, Label: "Country of residence", Options: CountryOptions()},
					{Name: "residenceCity", Type: model.FieldTypeText, Label: "City"},
					{Name: "residenceAddress", Type: model.FieldTypeTextarea, Label: "Address"},
					{Name: "stayAddress", Type: model.FieldTypeTextarea, Label: "Address during your stay",
						Description: "Hotel name or the full address where you will stay."},
				},
			},
			{
				ID:          "emergency",
				Title:       "Emergency contact",
				Description: "Optional.",
				Fields: []model.FieldDefinition{
					{Name: "emergencyContactName", Type: model.FieldTypeText, Label: "Name"},
					{Name: "emergencyContactPhone", Type: model.FieldTypeTel, Label: "Phone number"},
				},
			},
		},
	}
}

// FlightInfo collects the flight the group travels on.
func FlightInfo() model.StepDefinition {
	countries := CountryOptions()
	return model.StepDefinition{
		ID:     FlightInfoID,
		Title:  "Flight information",
		Prefix: "flightInfo",
		Sections: []model.SectionDefinition{
			{
				ID: "flight",
				Fields: []model.FieldDefinition{
					{Name: "direction", Type: model.FieldTypeRadio, Label: "Are you arriving or departing?",
						Layout: model.LayoutHorizontal, Options: []model.Option{
							{Value: "arrival", Label: "Arriving", Icon: arrivalIcon},
							{Value: "departure", Label: "Departing", Icon: departureIcon},
						}},
					{Name: "airline", Type: model.FieldTypeText},
					{Name: "flightNumber", Type: model.FieldTypeText, Label: "Flight number", Placeholder: "AA1234"},
					{Name: "travelDate", Type: model.FieldTypeDate, Label: "Travel date"},
					{Name: "originCountry", Type: model.FieldTypeSelect, Label: "Country of origin", Options: countries},
					{Name: "destinationCountry", Type: model.FieldTypeSelect, Label: "Destination country", Options: countries},
					{Name: "portOfEntry", Type: model.FieldTypeText, Label: "Airport or port"},
					{Name: "hasConnection", Type: model.FieldTypeBoolean, Label: "Do you have a connecting flight?"},
					{Name: "connectionFlightNumber", Type: model.FieldTypeText, Label: "Connecting flight number",
						VisibleWhen: "@hasConnection == true"},
				},
			},
		},
	}
}

// CustomsDeclaration asks the customs questions; details appear only for
// questions answered yes.
func CustomsDeclaration() model.StepDefinition {
	return model.StepDefinition{
		ID:          CustomsDeclarationID,
		Title:       "Customs declaration",
		Description: "One declaration covers the whole family group.",
		Prefix:      "customs",
		Sections: []model.SectionDefinition{
			{
				ID:    "currency",
				Title: "Currency",
				Fields: []model.FieldDefinition{
					{Name: "carriesCurrency", Type: model.FieldTypeBoolean,
						Label:       "Are you carrying more than USD 10,000 or its equivalent?",
						Description: "Includes cash, cheques and other <strong>monetary instruments</strong>."},
					{Name: "currencyAmount", Type: model.FieldTypeText, Label: "Amount in USD",
						VisibleWhen: "@carriesCurrency == true"},
				},
			},
			{
				ID:    "animals-food",
				Title: "Animals, plants and food",
				Fields: []model.FieldDefinition{
					{Name: "carriesAnimalsOrFood", Type: model.FieldTypeBoolean,
						Label: "Are you carrying live animals, plants or food products?"},
					{Name: "animalsOrFoodDetails", Type: model.FieldTypeTextarea, Label: "Describe them",
						VisibleWhen: "@carriesAnimalsOrFood == true"},
				},
			},
			{
				ID:    "goods",
				Title: "Taxable goods",
				Fields: []model.FieldDefinition{
					{Name: "carriesTaxableGoods", Type: model.FieldTypeBoolean,
						Label: "Are you carrying goods subject to taxes?"},
					{Name: "taxableGoodsValue", Type: model.FieldTypeText, Label: "Total value in USD",
						VisibleWhen: "@carriesTaxableGoods == true"},
					{Name: "taxableGoodsDescription", Type: model.FieldTypeTextarea, Label: "Description of the goods",
						VisibleWhen: "@carriesTaxableGoods == true"},
				},
			},
		},
	}
}

// Review shows the summary and collects the final attestation.
func Review() model.StepDefinition {
	return model.StepDefinition{
		ID:     ReviewID,
		Title:  "Review and submit",
		Prefix: "customs",
		Sections: []model.SectionDefinition{
			{
				ID: "attestation",
				Fields: []model.FieldDefinition{
					{Name: "declarationAccepted", Type: model.FieldTypeCheckbox,
						Label: "I declare that the information provided is true and complete."},
				},
			},
		},
	}
}

const (
	arrivalIcon   = `<svg viewBox="0 0 24 24" aria-hidden="true"><path d="M2 20h20v2H2zM3.5 11.6l1.4-.4 2.3 2.2 5-1.3L8 4.7l1.9-.5 6.9 6.4 5-1.3a1.5 1.5 0 0 1 .8 2.9L4.8 17z"/></svg>`
	departureIcon = `<svg viewBox="0 0 24 24" aria-hidden="true"><path d="M2 20h20v2H2zM20.6 8.3a1.5 1.5 0 0 0-1.8-1.1l-5 1.3L7.3 2.1l-1.9.5 3.9 6.8-5 1.3-2-1.5L.8 9.6l2.6 4.5L19.5 9.9a1.5 1.5 0 0 0 1.1-1.6z"/></svg>`
)
