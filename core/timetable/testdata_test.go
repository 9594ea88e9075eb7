package timetable

const sampleDocument = `---
sidebar_position: 2
---

import Horario from '@site/src/components/Horario';

export const data = {
  title: "IIW 2024 - A",
  base: 'iiw',
  time: [
    {time: "13:30", size: 1},
    {time: "14:20", size: 1},
  ],
  weekClasses: [
    {
      dayName: "Segunda",
      dayClasses: [
        {subject: "Programação {Web}", size: 2, teachers: ["Ana"], classroom: "B1-12", students: ["IIW2024A"], time: "13:30", color: "#fff"},
        {subject: "Banco de Dados", size: 1, teachers: "Rui", classroom: "B1-13", students: [], time: "15:10", group: 1},
      ],
    },
    {dayName: "Terça", dayClasses: []},
    {
      dayName: "Quarta",
      dayClasses: [
        {subject: 'Redes', size: 2, teachers: ['Leo', 'Bia'], classroom: 'Lab 3', students: ['IIW2024A'], time: '13:30'},
      ],
    },
  ],
};

<Horario data={data} />
`
