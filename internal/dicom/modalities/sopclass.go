package modalities

// SecondaryCaptureSOPClassUID is used for every modality without a dedicated
// storage class.
const SecondaryCaptureSOPClassUID = "1.2.840.10008.5.1.4.1.1.7"

var sopClasses = map[Modality]string{
	CT: "1.2.840.10008.5.1.4.1.1.2",    // CT Image Storage
	MR: "1.2.840.10008.5.1.4.1.1.4",    // MR Image Storage
	PT: "1.2.840.10008.5.1.4.1.1.128",  // Positron Emission Tomography Image Storage
	NM: "1.2.840.10008.5.1.4.1.1.20",   // Nuclear Medicine Image Storage
	CR: "1.2.840.10008.5.1.4.1.1.1",    // Computed Radiography Image Storage
	DX: "1.2.840.10008.5.1.4.1.1.1.1",  // Digital X-Ray Image Storage - For Presentation
	MG: "1.2.840.10008.5.1.4.1.1.1.2",  // Digital Mammography X-Ray Image Storage - For Presentation
	US: "1.2.840.10008.5.1.4.1.1.6.1",  // Ultrasound Image Storage
	XA: "1.2.840.10008.5.1.4.1.1.12.1", // X-Ray Angiographic Image Storage
	RF: "1.2.840.10008.5.1.4.1.1.12.2", // X-Ray Radiofluoroscopic Image Storage
}

// SOPClassUID returns the storage SOP class for m, falling back to
// Secondary Capture.
func SOPClassUID(m Modality) string {
	if uid, ok := sopClasses[m]; ok {
		return uid
	}
	return SecondaryCaptureSOPClassUID
}
