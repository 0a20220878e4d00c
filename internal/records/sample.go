package records

// SampleRecords returns the built-in demo record set. It is the fallback of
// last resort when the spreadsheet fetch fails and no archived snapshot
// exists, so the dashboard always has something to render.
func SampleRecords() []ObjectiveRecord {
	return []ObjectiveRecord{
		{Department: "ACTIVOS INMOBILIARIOS Y SERVICIOS (50000018)", Owner: "JOSE EVERARDO ROSALES", Objective: "Actualizar y/o implementar procesos para el área de servicios en un 100%", Progress: 100},
		{Department: "ACTIVOS INMOBILIARIOS Y SERVICIOS (50000018)", Owner: "JOSE EVERARDO ROSALES", Objective: "Adquirir el 100% del conocimiento adquirido en los cursos programados", Progress: 100},
		{Department: "ACTIVOS INMOBILIARIOS Y SERVICIOS (50000018)", Owner: "JOSE EVERARDO ROSALES", Objective: "Atender de manera oportuna el 100% de los requerimientos, cuestión de mantenimientos de edificios, vehículos y sus permisos correspondientes", Progress: 100},
		{Department: "ACTIVOS INMOBILIARIOS Y SERVICIOS (50000018)", Owner: "JOSE EVERARDO ROSALES", Objective: "Reducción a un 85% de solicitud de anticipos, para seguir el proceso interno y no afectar el presupuesto", Progress: 97},
		{Department: "ADMINISTRACION Y FINANZAS (50000001)", Owner: "ARMANDO TEOYOTL", Objective: "Asegurar al 90% la efectividad de la verificación a los embarques, al 30 de Junio de 2025", Progress: 100},
		{Department: "ADMINISTRACION Y FINANZAS (50000001)", Owner: "ARMANDO TEOYOTL", Objective: "Dominio del 100% de los procesos e instrucciones de trabajo para el equipo de embarques", Progress: 0},
		{Department: "ADMINISTRACION Y FINANZAS (50000001)", Owner: "CARLOS ARTURO HERNANDEZ", Objective: "Apoyo en mantener el 100% los CFDI de nóminas conciliado SAT vs SAP", Progress: 0},
		{Department: "ADMINISTRACION Y FINANZAS (50000001)", Owner: "CARLOS ARTURO HERNANDEZ", Objective: "Asistir al 100% a las capacitaciones programadas", Progress: 0},
	}
}
